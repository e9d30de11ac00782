package params

import (
	"errors"

	"github.com/andreyvit/tinyjson"

	"publicradio-go/types"
	"publicradio-go/x/crc16"
)

// Factory tuning defaults, kept as embedded JSON so the manufacture-time
// image and the host simulator seed NVM from the same place. The firmware
// never parses this at runtime; the factory block it ships with is the
// packed form.
const factoryJSON = `{
  "band": 0,
  "deemphasis": 0,
  "spacing": 0,
  "channel": 68,
  "volume": 10
}`

// FactoryDefaults decodes the embedded defaults.
func FactoryDefaults() (types.TuningParams, error) {
	r := tinyjson.Raw(factoryJSON)
	val := r.Value()
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return types.TuningParams{}, errors.New("factory defaults are not a JSON object")
	}
	num := func(key string) uint16 {
		if f, ok := m[key].(float64); ok {
			return uint16(f)
		}
		return 0
	}
	return types.TuningParams{
		Band:       uint8(num("band")),
		Deemphasis: uint8(num("deemphasis")),
		Spacing:    uint8(num("spacing")),
		Channel:    num("channel"),
		Volume:     uint8(num("volume")),
	}, nil
}

// Pack lays a tuning view out as one checksummed 16-byte block.
func Pack(p types.TuningParams) [BlockSize]byte {
	var b [BlockSize]byte
	b[offBand] = p.Band
	b[offDeemphasis] = p.Deemphasis
	b[offSpacing] = p.Spacing
	b[offChannel] = byte(p.Channel >> 8)
	b[offChannel+1] = byte(p.Channel)
	b[offVolume] = p.Volume
	crc := crc16.Block(b[:offChecksum])
	b[offChecksum] = byte(crc)
	b[offChecksum+1] = byte(crc >> 8)
	return b
}

// FactoryImage is the packed factory block: Pack(FactoryDefaults()).
func FactoryImage() ([BlockSize]byte, error) {
	p, err := FactoryDefaults()
	if err != nil {
		return [BlockSize]byte{}, err
	}
	return Pack(p), nil
}
