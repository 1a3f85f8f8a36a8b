// Package protowire oferece um Encoder/Decoder sequencial sobre o formato wire do
// protobuf (google.golang.org/protobuf/encoding/protowire), para mensagens escritas à mão.
// Wire types: 0=Varint, 1=64bit, 2=LengthDelimited, 5=32bit
package protowire

import (
	"fmt"

	pw "google.golang.org/protobuf/encoding/protowire"
)

// WireType constantes do protobuf
const (
	WireVarint          = int(pw.VarintType)
	Wire64Bit           = int(pw.Fixed64Type)
	WireLengthDelimited = int(pw.BytesType)
	Wire32Bit           = int(pw.Fixed32Type)
)

// ---------- ENCODER ----------

// Encoder acumula bytes no formato protobuf.
type Encoder struct {
	buf []byte
}

// NewEncoder cria um encoder vazio.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Bytes retorna o buffer serializado.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Reset limpa o buffer.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

func (e *Encoder) appendTag(fieldNum int, wireType pw.Type) {
	e.buf = pw.AppendTag(e.buf, pw.Number(fieldNum), wireType)
}

// EncodeVarint codifica um campo varint (int32, int64, uint32, uint64, enum).
func (e *Encoder) EncodeVarint(fieldNum int, v int64) {
	if v == 0 {
		return // proto3: zero é valor default, não serializa
	}
	e.appendTag(fieldNum, pw.VarintType)
	e.buf = pw.AppendVarint(e.buf, uint64(v))
}

// EncodeSint codifica um sint32/sint64 (zigzag), compacto para valores negativos.
func (e *Encoder) EncodeSint(fieldNum int, v int64) {
	if v == 0 {
		return
	}
	e.appendTag(fieldNum, pw.VarintType)
	e.buf = pw.AppendVarint(e.buf, pw.EncodeZigZag(v))
}

// EncodeBool codifica um boolean.
func (e *Encoder) EncodeBool(fieldNum int, v bool) {
	if !v {
		return
	}
	e.appendTag(fieldNum, pw.VarintType)
	e.buf = pw.AppendVarint(e.buf, pw.EncodeBool(v))
}

// EncodeBytes codifica bytes raw (length-delimited).
func (e *Encoder) EncodeBytes(fieldNum int, v []byte) {
	if len(v) == 0 {
		return
	}
	e.appendTag(fieldNum, pw.BytesType)
	e.buf = pw.AppendBytes(e.buf, v)
}

// EncodeString codifica uma string.
func (e *Encoder) EncodeString(fieldNum int, v string) {
	if v == "" {
		return
	}
	e.appendTag(fieldNum, pw.BytesType)
	e.buf = pw.AppendString(e.buf, v)
}

// EncodeSubmessage codifica uma submensagem (length-delimited).
func (e *Encoder) EncodeSubmessage(fieldNum int, sub []byte) {
	e.EncodeBytes(fieldNum, sub)
}

// EncodePackedFixed32 codifica um repeated fixed32 no formato packed.
func (e *Encoder) EncodePackedFixed32(fieldNum int, values []uint32) {
	if len(values) == 0 {
		return
	}
	e.appendTag(fieldNum, pw.BytesType)
	e.buf = pw.AppendVarint(e.buf, uint64(len(values)*pw.SizeFixed32()))
	for _, v := range values {
		e.buf = pw.AppendFixed32(e.buf, v)
	}
}

// ---------- DECODER ----------

// Decoder lê campos protobuf de um buffer.
type Decoder struct {
	buf []byte
}

// NewDecoder cria um decoder sobre um buffer.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Done retorna true se não há mais bytes.
func (d *Decoder) Done() bool {
	return len(d.buf) == 0
}

// Remaining retorna os bytes restantes.
func (d *Decoder) Remaining() int {
	return len(d.buf)
}

// advance consome n bytes ou converte n negativo no erro do protowire.
func (d *Decoder) advance(n int) error {
	if n < 0 {
		return fmt.Errorf("protowire: %w", pw.ParseError(n))
	}
	d.buf = d.buf[n:]
	return nil
}

// ReadTag lê o número do campo e o tipo de wire do próximo campo.
func (d *Decoder) ReadTag() (fieldNum int, wireType int, err error) {
	num, typ, n := pw.ConsumeTag(d.buf)
	if err := d.advance(n); err != nil {
		return 0, 0, err
	}
	return int(num), int(typ), nil
}

// ReadVarint lê um valor varint (após o tag já ter sido lido).
func (d *Decoder) ReadVarint() (int64, error) {
	v, n := pw.ConsumeVarint(d.buf)
	return int64(v), d.advance(n)
}

// ReadSint lê um valor zigzag escrito com EncodeSint.
func (d *Decoder) ReadSint() (int64, error) {
	v, n := pw.ConsumeVarint(d.buf)
	return pw.DecodeZigZag(v), d.advance(n)
}

// ReadBool lê um boolean.
func (d *Decoder) ReadBool() (bool, error) {
	v, n := pw.ConsumeVarint(d.buf)
	return pw.DecodeBool(v), d.advance(n)
}

// ReadBytes lê um campo length-delimited. O slice aponta para o buffer original.
func (d *Decoder) ReadBytes() ([]byte, error) {
	v, n := pw.ConsumeBytes(d.buf)
	return v, d.advance(n)
}

// ReadString lê uma string.
func (d *Decoder) ReadString() (string, error) {
	v, n := pw.ConsumeString(d.buf)
	return v, d.advance(n)
}

// ReadPackedFixed32 lê um repeated fixed32 no formato packed.
func (d *Decoder) ReadPackedFixed32() ([]uint32, error) {
	data, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	if len(data)%pw.SizeFixed32() != 0 {
		return nil, fmt.Errorf("protowire: packed fixed32 com %d bytes", len(data))
	}
	out := make([]uint32, 0, len(data)/pw.SizeFixed32())
	for len(data) > 0 {
		v, n := pw.ConsumeFixed32(data)
		if n < 0 {
			return nil, fmt.Errorf("protowire: %w", pw.ParseError(n))
		}
		out = append(out, v)
		data = data[n:]
	}
	return out, nil
}

// Wire types usados pelas mensagens do projeto.
const (
	VarintType = int(pw.VarintType)
	BytesType  = int(pw.BytesType)
)

// ExpectType rejeita um campo conhecido que chegou com o wire type errado.
func ExpectType(fieldNum, wireType, want int) error {
	if wireType != want {
		return fmt.Errorf("protowire: campo %d com wire type %d, esperado %d", fieldNum, wireType, want)
	}
	return nil
}

// SkipField pula um campo baseado no wire type.
func (d *Decoder) SkipField(fieldNum, wireType int) error {
	n := pw.ConsumeFieldValue(pw.Number(fieldNum), pw.Type(wireType), d.buf)
	return d.advance(n)
}
