package dynops

// Pair is a generic two-tuple, used for decode results that carry a remainder.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Encoder serializes values of type E to an adapter's value type. It is
// supplied by higher-level encode/decode logic; the algebra only calls it
// through the thin adapter functions below and never inspects its internals.
type Encoder[E, T any] interface {
	EncodeStart(ops Ops[T], value E) Result[T]
}

// EncoderFunc adapts a plain function to an Encoder.
type EncoderFunc[E, T any] func(ops Ops[T], value E) Result[T]

func (f EncoderFunc[E, T]) EncodeStart(ops Ops[T], value E) Result[T] { return f(ops, value) }

// Decoder deserializes values of type E from an adapter's value type,
// returning the decoded value together with the unconsumed remainder.
type Decoder[E, T any] interface {
	Decode(ops Ops[T], input T) Result[Pair[E, T]]
}

// DecoderFunc adapts a plain function to a Decoder.
type DecoderFunc[E, T any] func(ops Ops[T], input T) Result[Pair[E, T]]

func (f DecoderFunc[E, T]) Decode(ops Ops[T], input T) Result[Pair[E, T]] { return f(ops, input) }

// WithEncoder binds an encoder to an adapter, returning a plain serialization
// function.
func WithEncoder[E, T any](ops Ops[T], enc Encoder[E, T]) func(E) Result[T] {
	return func(value E) Result[T] { return enc.EncodeStart(ops, value) }
}

// WithDecoder binds a decoder to an adapter, returning a plain
// deserialization function that yields the value and the remainder.
func WithDecoder[E, T any](ops Ops[T], dec Decoder[E, T]) func(T) Result[Pair[E, T]] {
	return func(input T) Result[Pair[E, T]] { return dec.Decode(ops, input) }
}

// WithParser binds a decoder to an adapter, returning a parse function that
// discards the remainder.
func WithParser[E, T any](ops Ops[T], dec Decoder[E, T]) func(T) Result[E] {
	return func(input T) Result[E] {
		return MapResult(dec.Decode(ops, input), func(p Pair[E, T]) E { return p.First })
	}
}

// EncodeList serializes items through encode, merging the staged elements
// into prefix via a ListBuilder.
func EncodeList[T, E any](ops Ops[T], items []E, prefix T, encode func(E) Result[T]) Result[T] {
	return AddAll(NewListBuilder(ops), items, encode).Build(prefix)
}

// EncodeListWith is EncodeList with an Encoder collaborator.
func EncodeListWith[T, E any](ops Ops[T], items []E, prefix T, enc Encoder[E, T]) Result[T] {
	return EncodeList(ops, items, prefix, WithEncoder(ops, enc))
}

// EncodeMap serializes a Go map through per-key and per-value encode
// functions, merging the staged pairs into prefix via a RecordBuilder.
// Iteration order follows Go map iteration and is not deterministic; callers
// that need stable output should stage entries on a RecordBuilder themselves.
func EncodeMap[T any, K comparable, V any](ops Ops[T], m map[K]V, prefix T, encodeKey func(K) Result[T], encodeValue func(V) Result[T]) Result[T] {
	b := NewMapBuilder(ops)
	for k, v := range m {
		b.Add(encodeKey(k), encodeValue(v))
	}
	return b.Build(prefix)
}
