package takealot

// AuthScheme selects how the seller API key is presented. The seller API
// documents the "Key" form; some deployments sit behind gateways that want
// plain bearer tokens, so the scheme is kept per integration.
type AuthScheme string

const (
	AuthSchemeKey    AuthScheme = "key"
	AuthSchemeBearer AuthScheme = "bearer"
)

// Credentials carry everything needed to call the seller API on behalf of
// one integration.
type Credentials struct {
	APIKey string
	Scheme AuthScheme
}
