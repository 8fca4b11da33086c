package warranty

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/phonestore/backend/internal/domain/shared"
)

// maxCodeAttempts bounds the redraws when a generated code is taken
const maxCodeAttempts = 20

// CodeExistsFunc reports whether a code is already taken
type CodeExistsFunc func(ctx context.Context, code string) (bool, error)

// CodeGenerator produces warranty and claim codes
type CodeGenerator struct {
	intN func(n int) int
}

// NewCodeGenerator creates a generator backed by the global random source
func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{intN: rand.IntN}
}

// NewCodeGeneratorWithSource creates a generator with a custom source of
// random integers in [0, n).
func NewCodeGeneratorWithSource(intN func(n int) int) *CodeGenerator {
	return &CodeGenerator{intN: intN}
}

// WarrantyCode returns "WR" + yyyyMMdd + a number in [1000, 9999]
func (g *CodeGenerator) WarrantyCode(now time.Time) string {
	return fmt.Sprintf("WR%s%d", now.Format("20060102"), 1000+g.intN(9000))
}

// ClaimCode returns "WC" + yyMMddHHmmss + a number in [100, 999]
func (g *CodeGenerator) ClaimCode(now time.Time) string {
	return fmt.Sprintf("WC%s%d", now.Format("060102150405"), 100+g.intN(900))
}

// UniqueWarrantyCode draws warranty codes until exists reports a free one
func (g *CodeGenerator) UniqueWarrantyCode(ctx context.Context, exists CodeExistsFunc, now time.Time) (string, error) {
	return unique(ctx, exists, func() string { return g.WarrantyCode(now) })
}

// UniqueClaimCode draws claim codes until exists reports a free one
func (g *CodeGenerator) UniqueClaimCode(ctx context.Context, exists CodeExistsFunc, now time.Time) (string, error) {
	return unique(ctx, exists, func() string { return g.ClaimCode(now) })
}

func unique(ctx context.Context, exists CodeExistsFunc, next func() string) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := next()
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", shared.NewDomainError("CONCURRENCY_CONFLICT", "Could not generate a unique code, please try again")
}
