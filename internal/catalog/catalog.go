package catalog

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	CustomPackageID = 0
	MinCustomCoins  = 70
	MaxCustomCoins  = 1_000_000
)

var (
	ErrUnknownPackage = errors.New("catalog: unknown package")
	ErrBelowMinimum   = errors.New("catalog: custom amount below minimum")
	ErrAboveMaximum   = errors.New("catalog: custom amount above maximum")
	ErrPriceOverflow  = errors.New("catalog: price out of range")
)

var maxPrice = decimal.NewFromInt(math.MaxInt64)

// pricePerCoin is in the smallest unit of the shop currency.
var pricePerCoin = decimal.RequireFromString("11.24")

type Package struct {
	ID     int   `json:"id"`
	Amount int64 `json:"amount"`
	Price  int64 `json:"price"`
	Bonus  int64 `json:"bonus,omitempty"`
	Custom bool  `json:"isCustom,omitempty"`
}

// Credited is what the customer receives, bonus included.
func (p Package) Credited() int64 {
	return p.Amount + p.Bonus
}

type Catalog struct {
	packages []Package
}

func New(packages []Package) *Catalog {
	return &Catalog{packages: append([]Package(nil), packages...)}
}

func Default() *Catalog {
	return New([]Package{
		{ID: 1, Amount: 70, Price: 780},
		{ID: 2, Amount: 350, Price: 3900},
		{ID: 3, Amount: 700, Price: 7900, Bonus: 70},
		{ID: 4, Amount: 1400, Price: 15700, Bonus: 140},
		{ID: 5, Amount: 3500, Price: 39300, Bonus: 350},
		{ID: 6, Amount: 7000, Price: 78700, Bonus: 700},
	})
}

func (c *Catalog) Packages() []Package {
	return append([]Package(nil), c.packages...)
}

func (c *Catalog) Find(id int) (Package, bool) {
	for _, p := range c.packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// Resolve returns the catalog package, or prices a custom one when id is
// CustomPackageID.
func (c *Catalog) Resolve(id int, customCoins int64) (Package, error) {
	if id == CustomPackageID {
		return Custom(customCoins)
	}
	p, ok := c.Find(id)
	if !ok {
		return Package{}, fmt.Errorf("%w: %d", ErrUnknownPackage, id)
	}
	return p, nil
}

// Custom prices coins at pricePerCoin, rounded to the nearest unit.
func Custom(coins int64) (Package, error) {
	if coins < MinCustomCoins {
		return Package{}, fmt.Errorf("%w: at least %d coins", ErrBelowMinimum, MinCustomCoins)
	}
	if coins > MaxCustomCoins {
		return Package{}, fmt.Errorf("%w: at most %d coins", ErrAboveMaximum, MaxCustomCoins)
	}
	price, err := priceOf(coins)
	if err != nil {
		return Package{}, err
	}
	return Package{ID: CustomPackageID, Amount: coins, Price: price, Custom: true}, nil
}

// priceOf refuses prices IntPart would wrap.
func priceOf(coins int64) (int64, error) {
	price := decimal.NewFromInt(coins).Mul(pricePerCoin).Round(0)
	if price.IsNegative() || price.GreaterThan(maxPrice) {
		return 0, fmt.Errorf("%w: %d coins", ErrPriceOverflow, coins)
	}
	return price.IntPart(), nil
}
