package grib

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Identification is the decoded section 1. Only the originating centre and
// the reference time are retained; table versions and production status are
// validated upstream of this decoder, not here.
type Identification struct {
	Centre  uint16
	RefTime time.Time
}

// identification payload offsets (payload starts after the 5-byte header):
//
//	0-1  originating centre     7-8  year
//	2-3  sub-centre             9    month
//	4    master table version   10   day
//	5    local table version    11   hour
//	6    reference time meaning 12   minute
//	                            13   second
func parseIdentification(sec *Section) (Identification, error) {
	if len(sec.Payload) < 14 {
		return Identification{}, fmt.Errorf("%w: identification payload is %d bytes", ErrMalformedSection, len(sec.Payload))
	}
	p := sec.Payload

	year := int(binary.BigEndian.Uint16(p[7:9]))
	month := int(p[9])
	day := int(p[10])
	hour, minute, second := int(p[11]), int(p[12]), int(p[13])

	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 60 {
		return Identification{}, fmt.Errorf("%w: reference time %04d-%02d-%02d %02d:%02d:%02d",
			ErrMalformedSection, year, month, day, hour, minute, second)
	}

	return Identification{
		Centre:  binary.BigEndian.Uint16(p[0:2]),
		RefTime: time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC),
	}, nil
}
