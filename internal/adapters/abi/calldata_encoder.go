package abi

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// CalldataEncoder builds calldata from a human readable function signature
// such as "setValue(uint256)" and string arguments.
type CalldataEncoder struct{}

// NewCalldataEncoder creates a new CalldataEncoder
func NewCalldataEncoder() *CalldataEncoder {
	return &CalldataEncoder{}
}

// Encode returns the 4-byte selector followed by the ABI encoded arguments.
func (e *CalldataEncoder) Encode(signature string, args []string) ([]byte, error) {
	method, err := ParseSignature(signature)
	if err != nil {
		return nil, err
	}
	if len(args) != len(method.Inputs) {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", method.Sig, len(method.Inputs), len(args))
	}

	values := make([]any, len(args))
	for i, arg := range args {
		v, err := convertArg(method.Inputs[i].Type, arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d of %s: %w", i, method.Sig, err)
		}
		values[i] = v
	}

	packed, err := method.Inputs.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", method.Sig, err)
	}
	return append(append([]byte{}, method.ID...), packed...), nil
}

// ParseSignature parses "name(type,...)" into a method. Parameter names are
// ignored.
func ParseSignature(signature string) (*abi.Method, error) {
	signature = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(signature), "function "))
	open := strings.Index(signature, "(")
	if open <= 0 || !strings.HasSuffix(signature, ")") {
		return nil, fmt.Errorf("invalid function signature %q", signature)
	}
	name := strings.TrimSpace(signature[:open])

	var inputs abi.Arguments
	for i, param := range splitTopLevel(signature[open+1 : len(signature)-1]) {
		fields := strings.Fields(param)
		if len(fields) == 0 {
			return nil, fmt.Errorf("invalid function signature %q: empty parameter", signature)
		}
		typ, err := abi.NewType(fields[0], "", nil)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter type %q: %w", fields[0], err)
		}
		inputs = append(inputs, abi.Argument{Name: fmt.Sprintf("arg%d", i), Type: typ})
	}

	method := abi.NewMethod(name, name, abi.Function, "nonpayable", false, false, inputs, nil)
	return &method, nil
}

// splitTopLevel splits s on commas outside brackets and parentheses.
func splitTopLevel(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

func convertArg(typ abi.Type, arg string) (any, error) {
	v, err := convertValue(typ, strings.TrimSpace(arg))
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func convertValue(typ abi.Type, arg string) (reflect.Value, error) {
	goType := typ.GetType()
	switch typ.T {
	case abi.AddressTy:
		if !common.IsHexAddress(arg) {
			return reflect.Value{}, fmt.Errorf("invalid address %q", arg)
		}
		return reflect.ValueOf(common.HexToAddress(arg)), nil

	case abi.BoolTy:
		b, err := strconv.ParseBool(arg)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid bool %q", arg)
		}
		return reflect.ValueOf(b), nil

	case abi.StringTy:
		return reflect.ValueOf(arg), nil

	case abi.UintTy, abi.IntTy:
		n, ok := new(big.Int).SetString(arg, 0)
		if !ok {
			return reflect.Value{}, fmt.Errorf("invalid integer %q", arg)
		}
		if typ.T == abi.UintTy && n.Sign() < 0 {
			return reflect.Value{}, fmt.Errorf("negative value %s for %s", arg, typ)
		}
		if goType == reflect.TypeOf(&big.Int{}) {
			return reflect.ValueOf(n), nil
		}
		v := reflect.New(goType).Elem()
		if typ.T == abi.UintTy {
			if !n.IsUint64() || v.OverflowUint(n.Uint64()) {
				return reflect.Value{}, fmt.Errorf("value %s overflows %s", arg, typ)
			}
			v.SetUint(n.Uint64())
		} else {
			if !n.IsInt64() || v.OverflowInt(n.Int64()) {
				return reflect.Value{}, fmt.Errorf("value %s overflows %s", arg, typ)
			}
			v.SetInt(n.Int64())
		}
		return v, nil

	case abi.BytesTy:
		b, err := hexutil.Decode(arg)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid bytes %q: %w", arg, err)
		}
		return reflect.ValueOf(b), nil

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(arg)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid bytes%d %q: %w", typ.Size, arg, err)
		}
		if len(b) > typ.Size {
			return reflect.Value{}, fmt.Errorf("value %q is longer than bytes%d", arg, typ.Size)
		}
		v := reflect.New(goType).Elem()
		reflect.Copy(v, reflect.ValueOf(b))
		return v, nil

	case abi.SliceTy, abi.ArrayTy:
		if !strings.HasPrefix(arg, "[") || !strings.HasSuffix(arg, "]") {
			return reflect.Value{}, fmt.Errorf("expected [a,b,...] for %s, got %q", typ, arg)
		}
		items := splitTopLevel(arg[1 : len(arg)-1])
		if typ.T == abi.ArrayTy && len(items) != typ.Size {
			return reflect.Value{}, fmt.Errorf("%s expects %d elements, got %d", typ, typ.Size, len(items))
		}
		var v reflect.Value
		if typ.T == abi.SliceTy {
			v = reflect.MakeSlice(goType, len(items), len(items))
		} else {
			v = reflect.New(goType).Elem()
		}
		for i, item := range items {
			elem, err := convertValue(*typ.Elem, item)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			v.Index(i).Set(elem)
		}
		return v, nil
	}
	return reflect.Value{}, fmt.Errorf("unsupported parameter type %s", typ)
}

var _ usecase.CalldataEncoder = (*CalldataEncoder)(nil)
