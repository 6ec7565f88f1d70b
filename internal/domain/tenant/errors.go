package tenant

import "errors"

var ErrTenantNameRequired = errors.New("tenant name is required")
