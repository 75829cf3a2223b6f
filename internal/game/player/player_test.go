package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thraizz/monopoly-server-go/internal/game/cards"
)

func TestNewPlayer(t *testing.T) {
	p := New("alice", StartingCash)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 1500, p.Cash)
	assert.Equal(t, 0, p.Position)
	assert.Empty(t, p.Owned)
	assert.False(t, p.InJail)
}

func TestDebitNeverGoesNegative(t *testing.T) {
	p := New("alice", 100)
	require.NoError(t, p.Debit(60))
	assert.Error(t, p.Debit(41))
	assert.Equal(t, 40, p.Cash)
	p.Credit(10)
	assert.Equal(t, 50, p.Cash)
}

func TestOwnedStaysSorted(t *testing.T) {
	p := New("bob", 0)
	p.AddTile(9)
	p.AddTile(1)
	p.AddTile(6)
	p.AddTile(6)
	assert.Equal(t, []int{1, 6, 9}, p.Owned)
	assert.True(t, p.Owns(6))

	p.RemoveTile(6)
	p.RemoveTile(20)
	assert.Equal(t, []int{1, 9}, p.Owned)
	assert.False(t, p.Owns(6))
}

func TestJailCards(t *testing.T) {
	p := New("carol", 0)
	_, ok := p.TakeJailCard()
	assert.False(t, ok)

	p.GiveJailCard(cards.Card{ID: 8, Deck: cards.Chance, Effect: cards.EffectJailFree})
	p.GiveJailCard(cards.Card{ID: 4, Deck: cards.CommunityChest, Effect: cards.EffectJailFree})

	c, ok := p.TakeJailCard()
	require.True(t, ok)
	assert.Equal(t, cards.Chance, c.Deck)
	assert.Len(t, p.JailCards, 1)
}

func TestJailLifecycle(t *testing.T) {
	p := New("dave", 0)
	p.Position = 30
	p.JailAttempts = 2
	p.SendToJail(10)
	assert.True(t, p.InJail)
	assert.Equal(t, 10, p.Position)
	assert.Zero(t, p.JailAttempts)

	p.JailAttempts = 1
	p.Release()
	assert.False(t, p.InJail)
	assert.Zero(t, p.JailAttempts)
}

func TestCloneIsDeep(t *testing.T) {
	p := New("erin", 10)
	p.AddTile(3)
	c := p.Clone()
	c.AddTile(5)
	assert.Equal(t, []int{3}, p.Owned)
	assert.Equal(t, []int{3, 5}, c.Owned)
}
