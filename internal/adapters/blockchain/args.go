package blockchain

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/superposition-labs/spdeploy/internal/domain"
)

var bigIntType = reflect.TypeOf((*big.Int)(nil))

// CoerceArgs converts string arguments into the Go values abi.Pack expects
// for the given ABI inputs
func CoerceArgs(inputs abi.Arguments, raw []string) ([]any, error) {
	if len(inputs) != len(raw) {
		return nil, fmt.Errorf("%w: expected %d argument(s), got %d", domain.ErrInvalidArguments, len(inputs), len(raw))
	}

	values := make([]any, len(raw))
	for i, input := range inputs {
		v, err := coerceArg(input.Type, raw[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("%w: argument %s (%s): %v", domain.ErrInvalidArguments, name, input.Type.String(), err)
		}
		values[i] = v
	}
	return values, nil
}

func coerceArg(t abi.Type, raw string) (any, error) {
	raw = strings.TrimSpace(raw)

	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("%q is not an address", raw)
		}
		return common.HexToAddress(raw), nil

	case abi.BoolTy:
		return strconv.ParseBool(raw)

	case abi.StringTy:
		return raw, nil

	case abi.BytesTy:
		return hexutil.Decode(raw)

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, err
		}
		if len(b) > t.Size {
			return nil, fmt.Errorf("%d bytes do not fit in bytes%d", len(b), t.Size)
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.UintTy, abi.IntTy:
		n, ok := new(big.Int).SetString(raw, 0)
		if !ok {
			return nil, fmt.Errorf("%q is not an integer", raw)
		}
		if t.T == abi.UintTy && n.Sign() < 0 {
			return nil, fmt.Errorf("%q is negative", raw)
		}
		if t.GetType() == bigIntType {
			return n, nil
		}
		v := reflect.New(t.GetType()).Elem()
		if t.T == abi.UintTy {
			if !n.IsUint64() || v.OverflowUint(n.Uint64()) {
				return nil, fmt.Errorf("%q overflows uint%d", raw, t.Size)
			}
			v.SetUint(n.Uint64())
		} else {
			if !n.IsInt64() || v.OverflowInt(n.Int64()) {
				return nil, fmt.Errorf("%q overflows int%d", raw, t.Size)
			}
			v.SetInt(n.Int64())
		}
		return v.Interface(), nil

	default:
		return nil, fmt.Errorf("type %s is not supported as a command-line argument", t.String())
	}
}
