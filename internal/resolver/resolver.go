// File: internal/resolver/resolver.go
package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xkilldash9x/petition-cli/internal/hoststate"
)

// Field names a value the submission pipeline may need from host state.
// The string form is the key the signature API expects.
type Field string

const (
	CSRFToken   Field = "csrf_token"
	PetitionID  Field = "petition_id"
	FirstName   Field = "first_name"
	LastName    Field = "last_name"
	City        Field = "city"
	StateCode   Field = "state_code"
	CountryCode Field = "country_code"
	Email       Field = "email"
)

// ProfileFields are the per-user fields, in the order the form lists them.
var ProfileFields = []Field{FirstName, LastName, City, StateCode, CountryCode, Email}

// AllFields lists every resolvable field.
var AllFields = append([]Field{CSRFToken, PetitionID}, ProfileFields...)

// strategy resolves one field against one state shape.
type strategy func(s *hoststate.State) (string, bool)

const petitionKeyPrefix = "Petition"

// appStrategies walk the Apollo cache of the newer front end. Profile fields
// are not exposed there.
var appStrategies = map[Field]strategy{
	CSRFToken:  path("apolloState", "$ROOT_QUERY.appState", "csrfToken"),
	PetitionID: apolloPetitionID,
}

// clientStrategies walk the older clientData blob.
var clientStrategies = map[Field]strategy{
	CSRFToken:   path("appData", "csrfToken"),
	PetitionID:  path("bootstrapData", "model", "summary", "id"),
	FirstName:   currentUser("first_name"),
	LastName:    currentUser("last_name"),
	City:        currentUser("city"),
	StateCode:   currentUser("state_code"),
	CountryCode: currentUser("country_code"),
	Email:       currentUser("email"),
}

func strategiesFor(v hoststate.Variant) map[Field]strategy {
	switch v {
	case hoststate.VariantClient:
		return clientStrategies
	case hoststate.VariantApp:
		return appStrategies
	default:
		return nil
	}
}

// Resolve returns the value of field in state. ok is false when the value is
// absent, which is distinct from a present empty string.
func Resolve(state *hoststate.State, field Field) (string, bool) {
	if state == nil {
		return "", false
	}
	fn, supported := strategiesFor(state.Variant())[field]
	if !supported {
		return "", false
	}
	return fn(state)
}

// Supports reports whether field can ever be resolved from the given variant.
func Supports(v hoststate.Variant, field Field) bool {
	_, ok := strategiesFor(v)[field]
	return ok
}

// ResolveAll returns every field that resolves, keyed by field.
func ResolveAll(state *hoststate.State) map[Field]string {
	out := make(map[Field]string)
	for _, f := range AllFields {
		if v, ok := Resolve(state, f); ok {
			out[f] = v
		}
	}
	return out
}

func path(keys ...string) strategy {
	return func(s *hoststate.State) (string, bool) {
		v, ok := s.Lookup(keys...)
		if !ok {
			return "", false
		}
		return scalar(v)
	}
}

func currentUser(key string) strategy {
	return path("appData", "currentUser", key)
}

// apolloPetitionID takes the first cache key, in document order, that starts
// with "Petition" and strips the "Petition:" prefix from it.
func apolloPetitionID(s *hoststate.State) (string, bool) {
	if _, ok := s.Lookup("apolloState"); !ok {
		return "", false
	}
	for _, key := range s.Keys("apolloState") {
		if strings.HasPrefix(key, petitionKeyPrefix) {
			return strings.TrimPrefix(key, petitionKeyPrefix+":"), true
		}
	}
	return "", false
}

// scalar renders a JSON leaf as a string. null and containers are absent.
func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case map[string]any, []any:
		return "", false
	case fmt.Stringer:
		// json.Number
		return t.String(), true
	default:
		return fmt.Sprint(t), true
	}
}
