package graphql

import (
	"time"

	"github.com/graphql-go/graphql"

	"github.com/isdelr/social-feed-be/internal/models"
)

// isoTime serializes a timestamp the way clients expect it: ISO-8601
// with millisecond precision in UTC.
func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func userField(pick func(models.PublicUser) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		u, _ := p.Source.(models.PublicUser)
		return pick(u), nil
	}
}

func postField(pick func(models.PostView) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		v, _ := p.Source.(models.PostView)
		return pick(v), nil
	}
}

func inputMap(p graphql.ResolveParams, key string) map[string]interface{} {
	m, _ := p.Args[key].(map[string]interface{})
	return m
}

func str(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

// optStr distinguishes an absent key from an explicitly provided value.
func optStr(m map[string]interface{}, key string) *string {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}
