package domain

// PermittedHost grants a subject access to one host under a named actions
// profile. Extension fields added by the administrative tooling ride along in
// Extra and are ignored by the core.
type PermittedHost struct {
	Host           string            `json:"host"`
	ActionsProfile string            `json:"actionsProfile"`
	Extra          map[string]string `json:"extra,omitempty"`
}

// AuthRecord lists the hosts a subject may use. A single shared record with
// the reserved id "default" backs every subject that has no record of its own.
// Records are created by an external administrative process and are read-only
// to the coordinator.
type AuthRecord struct {
	ID             string
	PermittedHosts []PermittedHost
}

// FindHost returns the permitted-host entry for the given host, if present.
func (r *AuthRecord) FindHost(host string) (PermittedHost, bool) {
	for _, permitted := range r.PermittedHosts {
		if permitted.Host == host {
			return permitted, true
		}
	}
	return PermittedHost{}, false
}
