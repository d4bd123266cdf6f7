package npy

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Element is the set of Go numeric types that map onto the twelve
// supported dtype codes.
type Element interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// kindInfo describes an element kind the way the dtype codec does.
type kindInfo struct {
	float    bool
	signed   bool
	bitWidth int
}

// kindRegistry maps native numeric kinds to their dtype fields. The typed
// accessors consult it instead of switching on types inline.
var kindRegistry = map[reflect.Kind]kindInfo{
	reflect.Int8:    {signed: true, bitWidth: 8},
	reflect.Int16:   {signed: true, bitWidth: 16},
	reflect.Int32:   {signed: true, bitWidth: 32},
	reflect.Int64:   {signed: true, bitWidth: 64},
	reflect.Uint8:   {bitWidth: 8},
	reflect.Uint16:  {bitWidth: 16},
	reflect.Uint32:  {bitWidth: 32},
	reflect.Uint64:  {bitWidth: 64},
	reflect.Float32: {float: true, signed: true, bitWidth: 32},
	reflect.Float64: {float: true, signed: true, bitWidth: 64},
}

func kindOf[T Element]() kindInfo {
	var zero T
	return kindRegistry[reflect.TypeOf(zero).Kind()]
}

// Is reports whether the array's decoded dtype matches the element type T.
// Byte order is not part of the check; Values enforces it separately.
func Is[T Element](a *Array) bool {
	k := kindOf[T]()
	return k.float == a.Float && k.signed == a.Signed && k.bitWidth == a.BitWidth
}

// Values exposes the materialized element buffer as a typed slice without
// copying. The dtype must match T and the data must already be in host
// byte order, which every load without KeepByteOrder guarantees.
//
// The slice aliases Data and must not be used after Close.
func Values[T Element](a *Array) ([]T, error) {
	if !Is[T](a) {
		return nil, fmt.Errorf("%w: array dtype %s", ErrTypeMismatch, a.DType)
	}
	if a.LittleEndian != hostLittleEndian {
		return nil, fmt.Errorf("%w: data is not in host byte order", ErrTypeMismatch)
	}
	size, err := a.MemSize()
	if err != nil {
		return nil, err
	}
	if a.Data == nil || len(a.Data) != size {
		return nil, fmt.Errorf("%w: data not materialized", ErrFormat)
	}
	n := a.Size()
	if n == 0 {
		return nil, nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&a.Data[0])), n), nil
}

// FromSlice builds an array descriptor around an existing slice, ready
// for Save or Write. The descriptor never owns data; the element buffer
// aliases the slice directly.
func FromSlice[T Element](shape []int, data []T) (*Array, error) {
	n, err := countElems(shape)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: shape wants %d elements, slice has %d", ErrRange, n, len(data))
	}

	k := kindOf[T]()
	a := &Array{
		Major:        1,
		Shape:        shape,
		LittleEndian: hostLittleEndian,
		Float:        k.float,
		Signed:       k.signed,
		BitWidth:     k.bitWidth,
		size:         n,
		prov:         provExternal,
	}
	code, err := a.dtypeCode()
	if err != nil {
		return nil, err
	}
	a.DType = code

	if n > 0 {
		a.Data = unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), n*k.bitWidth/8)
	} else {
		a.Data = []byte{}
	}
	return a, nil
}

// SaveSlice writes a slice with the given shape straight to a .npy file.
func SaveSlice[T Element](path string, shape []int, data []T) error {
	a, err := FromSlice(shape, data)
	if err != nil {
		return err
	}
	return Save(path, a)
}
