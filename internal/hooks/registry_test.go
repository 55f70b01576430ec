package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunExecutesInRegistrationOrder(t *testing.T) {
	r := New()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		r.Register(func(ctx context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	r.Run(context.Background(), nil)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestRunContinuesPastFailures(t *testing.T) {
	r := New()
	var ran []string
	r.Register(func(ctx context.Context) error {
		ran = append(ran, "failing")
		return errors.New("close failed")
	})
	r.Register(func(ctx context.Context) error {
		ran = append(ran, "panicking")
		panic("boom")
	})
	r.Register(func(ctx context.Context) error {
		ran = append(ran, "last")
		return nil
	})

	r.Run(context.Background(), nil)

	assert.Equal(t, []string{"failing", "panicking", "last"}, ran)
}

func TestRunWithNoHooks(t *testing.T) {
	assert.NotPanics(t, func() {
		New().Run(context.Background(), nil)
	})
}
