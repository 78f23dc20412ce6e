package grib

import "fmt"

// Field is one decoded data section: the grid it covers, the packing table
// that values it, and the dense row-major level indices, exactly Ni*Nj of
// them.
type Field struct {
	Grid    GridDefinition
	Packing PackingTable
	Levels  []uint16
}

// Message is a fully decoded GRIB2 message. Messages normally carry a single
// field; repeated data sections (sharing the section number) each decode
// against the grid definition and packing table most recently seen.
type Message struct {
	Indicator      Indicator
	Identification Identification
	Fields         []Field
}

// Decode decodes a whole in-memory GRIB2 message. It walks the sections in
// ascending order (sections 4-7 may repeat as a group), decodes the data
// sections, and verifies the end marker is present where the indicator said
// the message ends.
func Decode(buf []byte) (*Message, error) {
	ind, err := parseIndicator(buf)
	if err != nil {
		return nil, err
	}

	msg := &Message{Indicator: ind}
	r := NewSectionReader(buf[indicatorLen:ind.MessageLength])

	var (
		prevID  uint8
		grid    *GridDefinition
		packing *PackingTable
		idSeen  bool
	)
	for {
		sec, err := r.Next()
		if err != nil {
			return nil, err
		}
		if sec == nil {
			break
		}
		if sec.ID < 1 || sec.ID > 7 {
			return nil, fmt.Errorf("%w: unknown section number %d", ErrMalformedSection, sec.ID)
		}
		// Sections arrive in ascending order, except that a new data group
		// may restart at section 4 after a data section.
		if sec.ID < prevID && !(prevID == 7 && sec.ID >= 4) {
			return nil, fmt.Errorf("%w: section %d after section %d", ErrMalformedSection, sec.ID, prevID)
		}
		prevID = sec.ID

		switch sec.ID {
		case 1:
			if msg.Identification, err = parseIdentification(sec); err != nil {
				return nil, err
			}
			idSeen = true
		case 2, 4:
			// Local use and product definition carry nothing this decoder
			// needs; framing is still validated by the section reader.
		case 3:
			g, err := parseGridDefinition(sec)
			if err != nil {
				return nil, err
			}
			grid = &g
		case 5:
			t, err := parsePackingTable(sec)
			if err != nil {
				return nil, err
			}
			packing = &t
		case 6:
			if len(sec.Payload) < 1 || sec.Payload[0] != 0xFF {
				return nil, fmt.Errorf("%w: bitmap present", ErrUnsupportedDataTemplate)
			}
		case 7:
			field, err := decodeField(sec, grid, packing)
			if err != nil {
				return nil, err
			}
			msg.Fields = append(msg.Fields, field)
		}
	}

	if !idSeen {
		return nil, fmt.Errorf("%w: missing identification section", ErrMalformedSection)
	}
	if len(msg.Fields) == 0 {
		return nil, fmt.Errorf("%w: no data section", ErrMalformedSection)
	}
	return msg, nil
}

func decodeField(sec *Section, grid *GridDefinition, packing *PackingTable) (Field, error) {
	if grid == nil {
		return Field{}, fmt.Errorf("%w: data section before grid definition", ErrMalformedSection)
	}
	if packing == nil {
		return Field{}, fmt.Errorf("%w: data section before data representation", ErrMalformedSection)
	}
	if grid.Points != packing.Points {
		return Field{}, fmt.Errorf("%w: grid definition declares %d points, data representation %d",
			ErrMalformedSection, grid.Points, packing.Points)
	}

	levels, err := DecodeLevels(sec.Payload, packing.Bits, packing.LevelCount(), int(grid.Points))
	if err != nil {
		return Field{}, fmt.Errorf("data section: %w", err)
	}
	return Field{Grid: *grid, Packing: *packing, Levels: levels}, nil
}
