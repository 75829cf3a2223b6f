package bank

import "fmt"

// Standard reserve and building stock.
const (
	DefaultCash   = 200000
	DefaultHouses = 32
	DefaultHotels = 12
)

// Bank is the money source and sink plus the unallocated building pool.
// Its cash never limits a payout; the balance exists for conservation checks.
type Bank struct {
	Cash   int `json:"cash"`
	Houses int `json:"houses"`
	Hotels int `json:"hotels"`
}

// New creates a bank with the given reserve and building stock.
func New(cash, houses, hotels int) *Bank {
	return &Bank{Cash: cash, Houses: houses, Hotels: hotels}
}

// Standard creates a bank with the classic reserve and stock.
func Standard() *Bank {
	return New(DefaultCash, DefaultHouses, DefaultHotels)
}

// Receive credits the bank.
func (b *Bank) Receive(amount int) {
	b.Cash += amount
}

// Pay debits the bank. The balance may go negative; the bank never fails.
func (b *Bank) Pay(amount int) {
	b.Cash -= amount
}

// TakeHouse removes one house from the pool.
func (b *Bank) TakeHouse() error {
	if b.Houses < 1 {
		return fmt.Errorf("no houses left")
	}
	b.Houses--
	return nil
}

// TakeHotel removes one hotel from the pool.
func (b *Bank) TakeHotel() error {
	if b.Hotels < 1 {
		return fmt.Errorf("no hotels left")
	}
	b.Hotels--
	return nil
}

// ReturnHouses puts houses back in the pool.
func (b *Bank) ReturnHouses(n int) {
	b.Houses += n
}

// ReturnHotel puts a hotel back in the pool.
func (b *Bank) ReturnHotel() {
	b.Hotels++
}

// Clone returns an independent copy.
func (b *Bank) Clone() *Bank {
	c := *b
	return &c
}
