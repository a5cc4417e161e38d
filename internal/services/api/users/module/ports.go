package module

import (
	"atelier/internal/platform/net/middleware"
	"atelier/internal/services/api/users/domain"
)

// Ports is what users offers other modules
type Ports struct {
	Accounts domain.AccountsPort
}

// Roles adapts the accounts port to the admin gate
func (p Ports) Roles() middleware.RoleLookup { return p.Accounts }
