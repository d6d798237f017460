package shared

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyArithmetic(t *testing.T) {
	five := MustMoney("5.00")
	threeFifty := MustMoney("3.5")

	total := five.Multiply(2).Add(threeFifty.Multiply(1))
	assert.Equal(t, "13.50", total.String())
	assert.True(t, total.Equals(MustMoney("13.5")))
	assert.True(t, total.IsPositive())
	assert.False(t, ZeroMoney().IsPositive())
	assert.True(t, MustMoney("-1").IsNegative())

	// 0.1 + 0.2 stays exact
	assert.Equal(t, "0.30", MustMoney("0.1").Add(MustMoney("0.2")).String())
}

func TestMoneyPrecisionAndBounds(t *testing.T) {
	for _, raw := range []string{"5", "5.5", "13.50", "1.500", "0.01"} {
		assert.True(t, MustMoney(raw).IsWholeCents(), raw)
	}
	for _, raw := range []string{"0.004", "1.005", "2.999"} {
		assert.False(t, MustMoney(raw).IsWholeCents(), raw)
	}

	assert.Equal(t, "99999999.99", MaxMoney.String())
	assert.False(t, MustMoney("99999999.99").GreaterThan(MaxMoney))
	assert.True(t, MustMoney("100000000").GreaterThan(MaxMoney))
}

func TestParseMoneyRejectsGarbage(t *testing.T) {
	_, err := ParseMoney("five")
	assert.Error(t, err)
	assert.Panics(t, func() { MustMoney("x") })
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Total Money `json:"total"`
	}{MustMoney("13.5")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":"13.50"}`, string(data))

	var in struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":5.25,"b":"3.50"}`), &in))
	assert.Equal(t, "5.25", in.A.String())
	assert.Equal(t, "3.50", in.B.String())
}

func TestDomainErrorMatching(t *testing.T) {
	err := NewNotFoundError("order", 42)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "order 42 not found", err.Error())

	var stacker Stacker
	require.True(t, errors.As(err, &stacker))
	assert.NotEmpty(t, stacker.Stack())

	cause := errors.New("connection refused")
	perr := NewPersistenceError("order", "insert", cause)
	assert.True(t, errors.Is(perr, ErrPersistence))
	assert.True(t, errors.Is(perr, cause))
	assert.Contains(t, perr.Error(), "connection refused")

	assert.True(t, errors.Is(NewValidationError("menu", "price", "price must be positive"), ErrInvalidInput))
	assert.True(t, errors.Is(NewConflictError("user", "email taken"), ErrConflict))
	assert.True(t, errors.Is(NewForbiddenError("user", "admin only"), ErrForbidden))
	assert.True(t, errors.Is(NewUnauthorizedError("user", "no token"), ErrUnauthorized))
}

type even struct{}

func (even) IsSatisfiedBy(_ context.Context, n int) bool { return n%2 == 0 }

type positive struct{}

func (positive) IsSatisfiedBy(_ context.Context, n int) bool { return n > 0 }

func TestSpecificationComposition(t *testing.T) {
	ctx := context.Background()
	var spec Specification[int] = AllOf[int](even{}, nil, positive{})

	assert.True(t, spec.IsSatisfiedBy(ctx, 4))
	assert.False(t, spec.IsSatisfiedBy(ctx, -4))
	assert.False(t, spec.IsSatisfiedBy(ctx, 3))

	assert.True(t, Or[int](even{}, positive{}).IsSatisfiedBy(ctx, 3))
	assert.True(t, Not[int](even{}).IsSatisfiedBy(ctx, 3))

	assert.Nil(t, AllOf[int]())
	assert.True(t, Satisfies[int](ctx, nil, 7))
}
