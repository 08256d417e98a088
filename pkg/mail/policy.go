package mail

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// RecipientPolicy decides which recipient addresses may receive mail.
// Denied patterns take precedence; with no allowed patterns every address
// that is not denied passes.
type RecipientPolicy struct {
	allowed []glob.Glob
	denied  []glob.Glob
}

// NewRecipientPolicy compiles glob patterns such as "*@example.com".
func NewRecipientPolicy(allowed, denied []string) (*RecipientPolicy, error) {
	p := &RecipientPolicy{}

	for _, pattern := range allowed {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid allowed recipient pattern '%s': %w", pattern, err)
		}
		p.allowed = append(p.allowed, g)
	}

	for _, pattern := range denied {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid denied recipient pattern '%s': %w", pattern, err)
		}
		p.denied = append(p.denied, g)
	}

	return p, nil
}

// Allows reports whether addr may receive mail. Matching is case-insensitive.
func (p *RecipientPolicy) Allows(addr string) bool {
	if p == nil {
		return true
	}
	addr = strings.ToLower(addr)

	for _, g := range p.denied {
		if g.Match(addr) {
			return false
		}
	}

	if len(p.allowed) == 0 {
		return true
	}

	for _, g := range p.allowed {
		if g.Match(addr) {
			return true
		}
	}
	return false
}
