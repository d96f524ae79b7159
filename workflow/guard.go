package workflow

import "report2resolve-be/models"

// Decision is the outcome of a portal access check.
type Decision struct {
	Allow      bool          `json:"allow"`
	RedirectTo models.Portal `json:"redirect_to,omitempty"`
}

func allow() Decision { return Decision{Allow: true} }

func redirect(to models.Portal) Decision { return Decision{RedirectTo: to} }

// Decide reports whether p may enter portal, or where it should be sent.
// Malformed principals are treated as signed out.
func Decide(p *models.Principal, portal models.Portal) Decision {
	if portal == models.PortalHome || portal == models.PortalAuth {
		return allow()
	}
	if !p.Authenticated() {
		return redirect(models.PortalAuth)
	}

	home := models.PortalFor(p.Role)
	switch portal {
	case models.PortalCitizen, models.PortalDepartment, models.PortalAdmin:
		if portal == home {
			return allow()
		}
		return redirect(home)
	}
	// Unknown portals fall back to the principal's own dashboard.
	return redirect(home)
}
