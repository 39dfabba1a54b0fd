package apperr

import (
	"fmt"
	"sort"
	"strings"
)

// Family groups kinds by failure class. It replaces the "is-a" grouping
// of a class hierarchy with a plain tag.
type Family string

const (
	FamilyAuthentication Family = "authentication"
	FamilyAuthorization  Family = "authorization"
	FamilyValidation     Family = "validation"
	FamilyDomain         Family = "domain"
	FamilySystem         Family = "system"
)

// Kind is an immutable catalog entry for one error code.
type Kind struct {
	// Code is the stable, machine-readable identifier, e.g. "EXPIRED_TOKEN".
	Code string
	// Family classifies the kind; each family owns a disjoint code namespace.
	Family Family
	// Status is the default HTTP status for this kind.
	Status int
	// Template is the human message; "{name}" placeholders are substituted
	// from the failure context when the message is rendered.
	Template string
	// Headers are default header directives attached to responses of this
	// kind. May be nil.
	Headers map[string]string
}

var catalog = map[string]*Kind{}

// register adds a kind to the catalog. Duplicate codes are a programming
// error: the stability guarantee forbids redefining a published code.
func register(k Kind) *Kind {
	if k.Code == "" || k.Family == "" || k.Status == 0 {
		panic(fmt.Sprintf("apperr: incomplete kind %+v", k))
	}
	if _, exists := catalog[k.Code]; exists {
		panic("apperr: duplicate error code " + k.Code)
	}
	kp := &k
	catalog[k.Code] = kp
	return kp
}

// Lookup returns the catalog entry for code, if any.
func Lookup(code string) (*Kind, bool) {
	k, ok := catalog[code]
	return k, ok
}

// Kinds returns every registered kind, sorted by code.
func Kinds() []*Kind {
	out := make([]*Kind, 0, len(catalog))
	for _, k := range catalog {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// renderTemplate substitutes "{key}" placeholders with values from ctx.
// Placeholders without a matching context entry are left as-is so a
// missing field is visible instead of silently dropped.
func renderTemplate(tmpl string, ctx map[string]any) string {
	if len(ctx) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	out := tmpl
	for k, v := range ctx {
		out = strings.ReplaceAll(out, "{"+k+"}", fmt.Sprint(v))
	}
	return out
}
