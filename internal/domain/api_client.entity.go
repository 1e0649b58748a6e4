package domain

type APIClient struct {
	ID         string
	Name       string
	SecretHash string
	Status     string
	Scopes     []string
}
