package models

import (
	"database/sql/driver"
	"fmt"
	"math/big"
	"strings"
)

// BigInt stores 256-bit chain words (sqrtPriceX96, liquidity, gas price)
// as decimal strings, since they do not fit any native SQL integer type.
type BigInt big.Int

func NewBigInt(i *big.Int) *BigInt {
	if i == nil {
		return (*BigInt)(big.NewInt(0))
	}
	return (*BigInt)(new(big.Int).Set(i))
}

func NewBigIntFromString(s string) (*BigInt, error) {
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid big integer %q", s)
	}
	return (*BigInt)(i), nil
}

func (n *BigInt) Int() *big.Int {
	if n == nil {
		return big.NewInt(0)
	}
	return (*big.Int)(n)
}

func (n *BigInt) String() string {
	return n.Int().String()
}

func (n *BigInt) Value() (driver.Value, error) {
	if n == nil {
		return "0", nil
	}
	return n.Int().String(), nil
}

func (n *BigInt) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case int64:
		(*big.Int)(n).SetInt64(v)
		return nil
	case nil:
		(*big.Int)(n).SetInt64(0)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into BigInt", value)
	}

	if s == "" {
		s = "0"
	}
	if _, ok := (*big.Int)(n).SetString(s, 10); !ok {
		return fmt.Errorf("cannot scan %q into BigInt", s)
	}
	return nil
}

func (n *BigInt) MarshalJSON() ([]byte, error) {
	return []byte(`"` + n.String() + `"`), nil
}

func (n *BigInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		s = "0"
	}
	if _, ok := (*big.Int)(n).SetString(s, 10); !ok {
		return fmt.Errorf("cannot unmarshal %q into BigInt", s)
	}
	return nil
}
