package technician

import "errors"

var ErrTechnicianNotFound = errors.New("technician not found")
