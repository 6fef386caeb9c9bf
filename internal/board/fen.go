package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hailam/athena/internal/errors"
)

// StartFEN is the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// fenDecoder fills a position field by field. Problems never stop decoding;
// the first one is kept in err for callers that care.
type fenDecoder struct {
	pos *Position
	err error
}

func (d *fenDecoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = errors.Wrapf(errors.ErrInvalidFEN, format, args...)
	}
}

// LoadFEN builds a position from a FEN string without reporting problems.
// Unknown characters are ignored and missing fields keep their defaults, so
// malformed input gives a partially populated position.
func LoadFEN(fen string) *Position {
	pos, _ := decodeFEN(fen, nil, false)
	return pos
}

// LoadFENWithKeys is LoadFEN hashing with a caller-provided key set.
func LoadFENWithKeys(fen string, keys *Zobrist) *Position {
	pos, _ := decodeFEN(fen, keys, false)
	return pos
}

// ParseFEN builds a position from a FEN string and rejects anything
// malformed: wrong field count, bad characters, ranks that do not sum to
// eight files, out-of-range coordinates or a side without exactly one king.
func ParseFEN(fen string) (*Position, error) {
	pos, err := decodeFEN(fen, nil, true)
	if err != nil {
		return nil, &errors.PositionError{Err: err, FEN: fen}
	}
	if err := pos.Validate(); err != nil {
		return nil, &errors.PositionError{Err: fmt.Errorf("%w: %w", errors.ErrInvalidFEN, err), FEN: fen}
	}
	return pos, nil
}

func decodeFEN(fen string, keys *Zobrist, strict bool) (*Position, error) {
	d := &fenDecoder{pos: EmptyPosition(keys)}
	fields := strings.Fields(fen)
	if strict && len(fields) != 6 {
		d.fail("need 6 fields, got %d", len(fields))
	}

	get := func(i int) (string, bool) {
		if i < len(fields) {
			return fields[i], true
		}
		return "", false
	}

	if f, ok := get(0); ok {
		d.placement(f)
	}
	if f, ok := get(1); ok {
		d.side(f)
	}
	if f, ok := get(2); ok {
		d.castling(f)
	}
	if f, ok := get(3); ok {
		d.enPassant(f)
	}
	if f, ok := get(4); ok {
		d.pos.HalfMoveClock = d.number(f, "half-move clock", 0)
	}
	if f, ok := get(5); ok {
		d.pos.FullMoveNumber = d.number(f, "full-move number", 1)
	}

	d.pos.updateOccupancy()
	d.pos.Hash = d.pos.ComputeHash()
	return d.pos, d.err
}

func (d *fenDecoder) placement(field string) {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		d.fail("need 8 ranks, got %d", len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		if rank < 0 {
			break
		}
		file := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece := PieceFromChar(c)
			if piece == NoPiece {
				d.fail("unknown piece %q on rank %d", c, rank+1)
				continue
			}
			if file > 7 {
				d.fail("rank %d overflows the board", rank+1)
				break
			}
			sq := NewSquare(file, rank)
			d.pos.Pieces[piece.Color()][piece.Type()] = d.pos.Pieces[piece.Color()][piece.Type()].Set(sq)
			file++
		}
		if file != 8 {
			d.fail("rank %d has %d files", rank+1, file)
		}
	}
}

func (d *fenDecoder) side(field string) {
	switch field {
	case "w":
		d.pos.SideToMove = White
	case "b":
		d.pos.SideToMove = Black
	default:
		d.fail("side to move %q", field)
	}
}

func (d *fenDecoder) castling(field string) {
	if field == "-" {
		return
	}
	for _, c := range field {
		switch c {
		case 'K':
			d.pos.Castling |= WhiteKingSide
		case 'Q':
			d.pos.Castling |= WhiteQueenSide
		case 'k':
			d.pos.Castling |= BlackKingSide
		case 'q':
			d.pos.Castling |= BlackQueenSide
		default:
			d.fail("castling flag %q", c)
		}
	}
}

func (d *fenDecoder) enPassant(field string) {
	if field == "-" {
		return
	}
	sq, err := ParseSquare(field)
	if err != nil {
		d.fail("en passant %q", field)
		return
	}
	d.pos.EnPassant = sq
}

func (d *fenDecoder) number(field, name string, fallback int) int {
	n, err := strconv.Atoi(field)
	if err != nil || n < 0 {
		d.fail("%s %q", name, field)
		return fallback
	}
	return n
}

// FEN serializes the position, fields in the same order LoadFEN reads them.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	side := " w "
	if p.SideToMove == Black {
		side = " b "
	}
	sb.WriteString(side)
	sb.WriteString(p.Castling.String())
	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))
	return sb.String()
}
