package epiload

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/baggage"
)

// SetBaggage adds key=value to the baggage carried by ctx.
//
// Keys must be valid W3C baggage tokens and values must not contain control
// characters; otherwise an error is returned and ctx is returned unchanged.
func SetBaggage(ctx context.Context, key, value string) (context.Context, error) {
	member, err := baggage.NewMember(key, value)
	if err != nil {
		return ctx, fmt.Errorf("failed to create baggage member: %w", err)
	}
	bag, err := baggage.FromContext(ctx).SetMember(member)
	if err != nil {
		return ctx, fmt.Errorf("failed to set baggage member: %w", err)
	}

	return baggage.ContextWithBaggage(ctx, bag), nil
}

// GetBaggage returns the baggage value for key, or empty string.
func GetBaggage(ctx context.Context, key string) string {
	return baggage.FromContext(ctx).Member(key).Value()
}
