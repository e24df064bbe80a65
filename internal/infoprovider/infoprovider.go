package infoprovider

// InfoProvider resolves the roles that apply to a subject
type InfoProvider interface {
	GetRoles(subject string) ([]string, error)
}
