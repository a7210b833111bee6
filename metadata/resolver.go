package metadata

// Resolve produces the effective metadata URI for a card.
//
// A configured level URI takes priority and is joined with the base prefix
// when one is set. Cards on a level without a configured URI fall back to
// the supplied default.
func Resolve(levelURI string, fallbackURI string, basePrefix string) string {
	if levelURI == "" {
		return fallbackURI
	}
	if basePrefix == "" {
		return levelURI
	}
	return basePrefix + levelURI
}
