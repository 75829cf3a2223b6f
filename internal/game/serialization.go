package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/thraizz/monopoly-server-go/internal/game/cards"
)

// SerializationChecksum is a deterministic digest of a saved state.
type SerializationChecksum struct {
	Hash      string // SHA-256 hash of the canonical representation
	Timestamp string // when the state was saved
	Version   int
}

// ComputeChecksum hashes the canonical representation of the state. The
// event log, save time and the stored checksum itself are excluded.
func (s *SavedState) ComputeChecksum() (*SerializationChecksum, error) {
	hash := sha256.New()
	if _, err := hash.Write([]byte(s.buildDeterministicRepresentation())); err != nil {
		return nil, fmt.Errorf("failed to compute hash: %w", err)
	}
	return &SerializationChecksum{
		Hash:      hex.EncodeToString(hash.Sum(nil)),
		Timestamp: s.SavedAt.Format("2006-01-02T15:04:05.000Z"),
		Version:   s.Version,
	}, nil
}

// buildDeterministicRepresentation writes one line per record in a fixed order.
// Holdings are already sorted by tile; seat and deck order are significant.
func (s *SavedState) buildDeterministicRepresentation() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%d|%s|%d|%d|%d|%t|%s|%d|%d\n",
		s.ID, s.Version, s.Phase, s.Current, s.Turn, s.Doubles, s.ExtraRoll, s.Winner, s.Salary, s.Bail)
	fmt.Fprintf(&buf, "BANK:%d|%d|%d\n", s.Bank.Cash, s.Bank.Houses, s.Bank.Hotels)
	if s.LastRoll != nil {
		fmt.Fprintf(&buf, "ROLL:%d|%d\n", s.LastRoll.D1, s.LastRoll.D2)
	}

	for _, p := range s.Players {
		fmt.Fprintf(&buf, "PLAYER:%s|%s|%d|%d|%t|%d|%t|%s\n",
			p.ID, p.Name, p.Cash, p.Position, p.InJail, p.JailAttempts, p.Bankrupt, p.BankruptReason)
		owned := make([]string, len(p.Owned))
		for i, idx := range p.Owned {
			owned[i] = fmt.Sprint(idx)
		}
		fmt.Fprintf(&buf, "  OWNED:%s\n", strings.Join(owned, ","))
		for _, c := range p.JailCards {
			fmt.Fprintf(&buf, "  JAIL_CARD:%s/%d\n", c.Deck, c.ID)
		}
	}

	for _, h := range s.Holdings {
		fmt.Fprintf(&buf, "HOLDING:%d|%s|%t|%d|%t\n", h.Tile, h.Owner, h.Mortgaged, h.Houses, h.Hotel)
	}

	writeDeck := func(name string, ds DeckState) {
		fmt.Fprintf(&buf, "DECK:%s|draw=%s|discard=%s\n", name, cardIDs(ds.Draw), cardIDs(ds.Discard))
	}
	writeDeck(string(cards.Chance), s.Chance)
	writeDeck(string(cards.CommunityChest), s.CommunityChest)

	if s.Auction != nil {
		fmt.Fprintf(&buf, "AUCTION:%d|%s|%d|%s|%d\n",
			s.Auction.Tile, strings.Join(s.Auction.Bidders, ","), s.Auction.HighBid, s.Auction.HighBidder, s.Auction.Passes)
		for _, b := range s.Auction.Log {
			fmt.Fprintf(&buf, "  BID:%s=%d\n", b.Bidder, b.Amount)
		}
	}
	if s.Debt != nil {
		fmt.Fprintf(&buf, "DEBT:%s\n", s.Debt.Debtor)
		for _, o := range s.Debt.Obligations {
			fmt.Fprintf(&buf, "  OWE:%s=%d\n", o.Creditor, o.Amount)
		}
	}
	return buf.String()
}

func cardIDs(cs []cards.Card) string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = fmt.Sprint(c.ID)
	}
	return strings.Join(ids, ",")
}

// VerifyChecksum reports whether the state's computed checksum matches expected.
func (s *SavedState) VerifyChecksum(expected *SerializationChecksum) (bool, error) {
	computed, err := s.ComputeChecksum()
	if err != nil {
		return false, fmt.Errorf("failed to compute checksum: %w", err)
	}
	return computed.Hash == expected.Hash, nil
}

// SerializeToBytes encodes the state with gob.
func (s *SavedState) SerializeToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return buf.Bytes(), nil
}

// DeserializeFromBytes decodes a gob-encoded state.
func DeserializeFromBytes(data []byte) (*SavedState, error) {
	var s SavedState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	return &s, nil
}
