package format

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
)

// BigInt converts an integral Go number or json.Number into a big.Int.
// Non-integral floats and non-numbers report false.
func BigInt(v any) (*big.Int, bool) {
	switch n := v.(type) {
	case json.Number:
		if b, ok := new(big.Int).SetString(string(n), 10); ok {
			return b, true
		}
		f, err := n.Float64()
		if err != nil {
			return nil, false
		}
		return BigInt(f)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return nil, false
		}
		b, _ := big.NewFloat(n).Int(nil)
		return b, true
	case float32:
		return BigInt(float64(n))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), true
	}
	return nil, false
}

// Float converts any Go number or json.Number into a float64.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	}
	return 0, false
}

func rangeFunc(name string, lo, hi *big.Int) Func {
	return func(v any) error {
		n, ok := BigInt(v)
		if !ok {
			return fmt.Errorf("%s: expected integer, got %T", name, v)
		}
		if n.Cmp(lo) < 0 || n.Cmp(hi) > 0 {
			return fmt.Errorf("%s: %s out of range [%s, %s]", name, n, lo, hi)
		}
		return nil
	}
}

func signedFunc(bits int) Func {
	hi := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	lo := new(big.Int).Neg(hi)
	hi.Sub(hi, big.NewInt(1))
	return rangeFunc(fmt.Sprintf("i%d", bits), lo, hi)
}

// unsignedFunc enforces the implied [0, 2^n - 1] bound of a u<n> format.
func unsignedFunc(bits int) Func {
	hi := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	hi.Sub(hi, big.NewInt(1))
	return rangeFunc(fmt.Sprintf("u%d", bits), big.NewInt(0), hi)
}

func floatFunc(name string, max float64) Func {
	return func(v any) error {
		f, ok := Float(v)
		if !ok {
			return fmt.Errorf("%s: expected number, got %T", name, v)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%s: not a finite number", name)
		}
		if math.Abs(f) > max {
			return fmt.Errorf("%s: %v exceeds the representable range", name, f)
		}
		return nil
	}
}
