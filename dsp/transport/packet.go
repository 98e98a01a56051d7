package transport

import "github.com/cwbudde/algo-stft/dsp/spectrum"

// Packet is one completed spectrum frame for every channel.
//
// Packets are owned by a Queue. The producer fills a packet between Acquire
// and Publish; the consumer reads it between receiving it and Release.
type Packet struct {
	// Sequence increases by one for every frame the producer completes,
	// including frames that were later dropped.
	Sequence uint64
	// Slot is the index of the overlapping analysis frame that produced the
	// packet.
	Slot int
	// Layout describes how Channel data is packed.
	Layout spectrum.Layout
	// Channels is the number of valid channels.
	Channels int
	// Length is the number of valid values per channel (the frame size).
	Length int

	data [][]float64
}

func newPacket(maxChannels, maxLength int) *Packet {
	backing := make([]float64, maxChannels*maxLength)

	data := make([][]float64, maxChannels)
	for ch := range data {
		data[ch] = backing[ch*maxLength : (ch+1)*maxLength : (ch+1)*maxLength]
	}

	return &Packet{data: data}
}

// Prepare sets the packet header for a frame with the given geometry and
// reports whether it fits the packet capacity.
func (p *Packet) Prepare(channels, length int, layout spectrum.Layout) bool {
	if channels < 0 || channels > len(p.data) || length < 0 || (channels > 0 && length > len(p.data[0])) {
		return false
	}

	p.Channels = channels
	p.Length = length
	p.Layout = layout

	return true
}

// Channel returns the valid data of channel ch. The slice aliases the packet
// and must not be retained after Release.
func (p *Packet) Channel(ch int) []float64 {
	return p.data[ch][:p.Length]
}

// MaxChannels returns the channel capacity.
func (p *Packet) MaxChannels() int { return len(p.data) }

// MaxLength returns the per-channel capacity.
func (p *Packet) MaxLength() int {
	if len(p.data) == 0 {
		return 0
	}

	return cap(p.data[0])
}

// Snapshot is a detached, encodable copy of a Packet.
type Snapshot struct {
	Sequence uint64      `json:"sequence" yaml:"sequence"`
	Slot     int         `json:"slot" yaml:"slot"`
	Layout   string      `json:"layout" yaml:"layout"`
	Channels int         `json:"channels" yaml:"channels"`
	Length   int         `json:"length" yaml:"length"`
	Data     [][]float64 `json:"data" yaml:"data"`
}

// Snapshot copies the packet into freshly allocated memory.
func (p *Packet) Snapshot() Snapshot {
	s := Snapshot{
		Sequence: p.Sequence,
		Slot:     p.Slot,
		Layout:   p.Layout.String(),
		Channels: p.Channels,
		Length:   p.Length,
		Data:     make([][]float64, p.Channels),
	}

	for ch := range p.Channels {
		s.Data[ch] = append([]float64(nil), p.Channel(ch)...)
	}

	return s
}
