package wallet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tournament-wallet-ledger/internal/domain/shared"
)

func TestRegistration_EffectiveFields(t *testing.T) {
	t.Run("MatchWins", func(t *testing.T) {
		r := Registration{Status: "REGISTERED", MatchTitle: "Old Name", Match: &Match{Title: " Summer Cup ", Status: "completed"}}
		assert.Equal(t, shared.MatchStatusCompleted, r.EffectiveStatus())
		assert.Equal(t, "Summer Cup", r.EffectiveTitle())
	})

	t.Run("FallsBackWithoutMatch", func(t *testing.T) {
		r := Registration{Status: "Completed", MatchTitle: "Winter Cup"}
		assert.Equal(t, shared.MatchStatusCompleted, r.EffectiveStatus())
		assert.Equal(t, "Winter Cup", r.EffectiveTitle())
		assert.Empty(t, r.EntryFee())
	})

	t.Run("FallsBackOnBlankMatchFields", func(t *testing.T) {
		r := Registration{Status: "COMPLETED", MatchTitle: "Autumn Cup", Match: &Match{EntryFee: "50"}}
		assert.Equal(t, shared.MatchStatusCompleted, r.EffectiveStatus())
		assert.Equal(t, "Autumn Cup", r.EffectiveTitle())
		assert.Equal(t, "50", r.EntryFee())
	})
}

func TestWithdrawal_Key(t *testing.T) {
	assert.Equal(t, "WREQ_7", Withdrawal{ID: "7"}.Key())
	assert.Equal(t, "WD_1", Withdrawal{ID: "7", ReferenceID: "WD_1"}.Key())
}

func TestCredential(t *testing.T) {
	assert.True(t, Credential{}.IsZero())
	assert.False(t, Credential{Token: "abc"}.IsZero())

	_, err := Credential{Token: "abc"}.UserID()
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	id, err := Credential{Subject: " 42 "}.UserID()
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	_, signedIn, err := Credential{}.Resolve()
	assert.NoError(t, err)
	assert.False(t, signedIn)

	_, _, err = Credential{Token: "abc"}.Resolve()
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	id, signedIn, err = Credential{Subject: "42", Token: "abc"}.Resolve()
	require.NoError(t, err)
	assert.True(t, signedIn)
	assert.Equal(t, "42", id)
}

func TestErrSourceFailed(t *testing.T) {
	err := ErrSourceFailed{Source: SourceLedger, Err: shared.ErrUnavailable}
	assert.True(t, errors.Is(err, shared.ErrUnavailable))
	assert.Contains(t, err.Error(), "ledger source failed")
}
