package warranty

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)

func newTestWarranty(t *testing.T, months int) *Warranty {
	t.Helper()
	w, err := NewWarranty(uuid.New(), uuid.New(), "WR202501311234", months, issuedAt)
	require.NoError(t, err)
	return w
}

func TestNewWarranty(t *testing.T) {
	t.Run("end date adds calendar months", func(t *testing.T) {
		w := newTestWarranty(t, 12)
		assert.Equal(t, issuedAt.AddDate(0, 12, 0), w.EndDate)
		assert.Equal(t, StatusActive, w.Status)
		require.Len(t, w.PendingEvents(), 1)
		assert.Equal(t, EventTypeWarrantyIssued, w.PendingEvents()[0].EventType())
	})

	t.Run("rejects zero period", func(t *testing.T) {
		_, err := NewWarranty(uuid.New(), uuid.New(), "WR1", 0, issuedAt)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects missing code", func(t *testing.T) {
		_, err := NewWarranty(uuid.New(), uuid.New(), "  ", 6, issuedAt)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestWarranty_IsActiveAt(t *testing.T) {
	w := newTestWarranty(t, 1)

	assert.True(t, w.IsActiveAt(issuedAt))
	assert.True(t, w.IsActiveAt(w.EndDate))
	assert.False(t, w.IsActiveAt(w.EndDate.Add(time.Nanosecond)))
	assert.Equal(t, StatusActive, w.Status)
	assert.Equal(t, StatusExpired, w.EffectiveStatus(w.EndDate.Add(time.Second)))

	require.NoError(t, w.ChangeStatus(StatusVoid, ""))
	assert.False(t, w.IsActiveAt(issuedAt))
}

func TestWarranty_DaysRemaining(t *testing.T) {
	w := newTestWarranty(t, 1)
	assert.Equal(t, 10, w.DaysRemaining(w.EndDate.Add(-10*24*time.Hour)))
	assert.Equal(t, 0, w.DaysRemaining(w.EndDate.Add(time.Hour)))
	assert.True(t, w.IsExpiringSoon(w.EndDate.Add(-24*time.Hour)))
	assert.False(t, w.IsExpiringSoon(issuedAt.Add(-60*24*time.Hour)))
}

func TestWarranty_ChangeStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr error
	}{
		{"active to void", StatusActive, StatusVoid, nil},
		{"active to transferred", StatusActive, StatusTransferred, nil},
		{"active to expired", StatusActive, StatusExpired, nil},
		{"void is terminal", StatusVoid, StatusActive, shared.ErrInvalidState},
		{"transferred is terminal", StatusTransferred, StatusVoid, shared.ErrInvalidState},
		{"unknown status", StatusActive, Status("Lost"), shared.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWarranty(t, 12)
			w.Status = tt.from
			err := w.ChangeStatus(tt.to, "note")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, w.Status)
			assert.Equal(t, "note", w.Notes)
		})
	}
}

func TestWarranty_ChangeStatusNotes(t *testing.T) {
	t.Run("too long leaves status untouched", func(t *testing.T) {
		w := newTestWarranty(t, 12)
		version := w.Version

		err := w.ChangeStatus(StatusVoid, strings.Repeat("a", 501))

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Equal(t, StatusActive, w.Status)
		assert.Equal(t, version, w.Version)
	})

	t.Run("limit counts characters not bytes", func(t *testing.T) {
		w := newTestWarranty(t, 12)
		notes := strings.Repeat("ệ", 500)

		require.NoError(t, w.ChangeStatus(StatusVoid, notes))
		assert.Equal(t, notes, w.Notes)
	})
}

func TestWarranty_Void(t *testing.T) {
	w := newTestWarranty(t, 12)
	assert.True(t, w.Void("order cancelled"))
	assert.Equal(t, StatusVoid, w.Status)
	assert.False(t, w.Void("again"))
}

func TestNewClaim(t *testing.T) {
	w := newTestWarranty(t, 12)

	t.Run("opens pending claim", func(t *testing.T) {
		c, err := NewClaim(w, "WC250131100000123", IssueScreen, " cracked ", issuedAt.AddDate(0, 1, 0))
		require.NoError(t, err)
		assert.Equal(t, ClaimPending, c.Status)
		assert.Equal(t, "cracked", c.IssueDescription)
		assert.Equal(t, w.ID, c.WarrantyID)
		require.Len(t, c.PendingEvents(), 1)
	})

	t.Run("expired warranty is not found", func(t *testing.T) {
		_, err := NewClaim(w, "WC1", IssueScreen, "cracked", w.EndDate.AddDate(0, 0, 1))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("validates issue type", func(t *testing.T) {
		_, err := NewClaim(w, "WC1", IssueType("water"), "wet", issuedAt)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("limits description", func(t *testing.T) {
		_, err := NewClaim(w, "WC1", IssueOther, strings.Repeat("x", 501), issuedAt)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestClaimStatus_CanTransitionTo(t *testing.T) {
	allowed := map[ClaimStatus][]ClaimStatus{
		ClaimPending:    {ClaimInProgress, ClaimApproved, ClaimRejected, ClaimCancelled},
		ClaimInProgress: {ClaimApproved, ClaimRejected, ClaimCancelled},
		ClaimApproved:   {ClaimCompleted, ClaimCancelled},
		ClaimRejected:   {ClaimCompleted},
	}
	for _, from := range AllClaimStatuses {
		for _, to := range AllClaimStatuses {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestClaim_Process(t *testing.T) {
	w := newTestWarranty(t, 12)
	now := issuedAt.AddDate(0, 2, 0)

	t.Run("stamps processor and completion", func(t *testing.T) {
		c, err := NewClaim(w, "WC1", IssueBattery, "drains", now)
		require.NoError(t, err)
		c.PullEvents()

		require.NoError(t, c.Process(ClaimDecision{Status: ClaimApproved, ResolutionType: ResolutionReplace}, "minh", now))
		require.NotNil(t, c.ProcessedAt)
		assert.Equal(t, "minh", c.ProcessedBy)
		assert.Nil(t, c.CompletedAt)

		later := now.Add(time.Hour)
		require.NoError(t, c.ChangeStatus(ClaimCompleted, "", later))
		require.NotNil(t, c.CompletedAt)
		assert.Equal(t, later, *c.CompletedAt)
		assert.Equal(t, "Admin", c.ProcessedBy)
		assert.Len(t, c.PendingEvents(), 2)
	})

	t.Run("refuses illegal transition", func(t *testing.T) {
		c, err := NewClaim(w, "WC2", IssueBattery, "drains", now)
		require.NoError(t, err)
		err = c.Process(ClaimDecision{Status: ClaimCompleted}, "minh", now)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.Nil(t, c.ProcessedAt)
	})

	t.Run("rejects unknown resolution type", func(t *testing.T) {
		c, err := NewClaim(w, "WC3", IssueBattery, "drains", now)
		require.NoError(t, err)
		err = c.Process(ClaimDecision{Status: ClaimApproved, ResolutionType: "discount"}, "minh", now)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestCodeGenerator(t *testing.T) {
	at := time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC)

	low := NewCodeGeneratorWithSource(func(int) int { return 0 })
	assert.Equal(t, "WR202503071000", low.WarrantyCode(at))
	assert.Equal(t, "WC250307140509100", low.ClaimCode(at))

	high := NewCodeGeneratorWithSource(func(n int) int { return n - 1 })
	assert.Equal(t, "WR202503079999", high.WarrantyCode(at))
	assert.Equal(t, "WC250307140509999", high.ClaimCode(at))

	code := NewCodeGenerator().WarrantyCode(at)
	assert.Regexp(t, `^WR20250307[1-9][0-9]{3}$`, code)
}

func TestCodeGenerator_UniqueWarrantyCode(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC)
	draws := []int{0, 0, 1}
	gen := NewCodeGeneratorWithSource(func(int) int {
		n := draws[0]
		draws = draws[1:]
		return n
	})
	taken := map[string]bool{"WR202503071000": true}

	code, err := gen.UniqueWarrantyCode(ctx, func(_ context.Context, c string) (bool, error) {
		return taken[c], nil
	}, at)

	require.NoError(t, err)
	assert.Equal(t, "WR202503071001", code)
	assert.Empty(t, draws)
}

func TestCodeGenerator_UniqueGivesUp(t *testing.T) {
	gen := NewCodeGeneratorWithSource(func(int) int { return 0 })
	always := func(context.Context, string) (bool, error) { return true, nil }

	_, err := gen.UniqueClaimCode(context.Background(), always, issuedAt)

	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}
