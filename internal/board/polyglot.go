package board

// Polyglot Zobrist keys, kept separate from the engine's internal keys.
// They are generated by a fixed-seed PRNG rather than taken from the
// published Polyglot random array, so only books keyed with these same
// values match; books produced by other Polyglot tools do not.
var (
	polyglotPieces     [12][64]uint64 // [piece_kind][square]
	polyglotCastling   [4]uint64      // [KQkq]
	polyglotEnPassant  [8]uint64      // [file]
	polyglotSideToMove uint64
)

func init() {
	initPolyglotKeys()
}

// PolyglotHash computes the Polyglot key of the position, for probing
// standard opening books.
func (p *Position) PolyglotHash() uint64 {
	var hash uint64

	// Polyglot piece ordering: bp, bN, bB, bR, bQ, bK, wp, wN, wB, wR, wQ, wK.
	pieceKindMap := [2][6]int{
		{6, 7, 8, 9, 10, 11}, // White
		{0, 1, 2, 3, 4, 5},   // Black
	}

	for color := White; color <= Black; color++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[color][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				hash ^= polyglotPieces[pieceKindMap[color][pt]][sq]
			}
		}
	}

	if p.CastlingRights&WhiteKingSideCastle != 0 {
		hash ^= polyglotCastling[0]
	}
	if p.CastlingRights&WhiteQueenSideCastle != 0 {
		hash ^= polyglotCastling[1]
	}
	if p.CastlingRights&BlackKingSideCastle != 0 {
		hash ^= polyglotCastling[2]
	}
	if p.CastlingRights&BlackQueenSideCastle != 0 {
		hash ^= polyglotCastling[3]
	}

	// The en passant key is included only when a pawn can actually
	// capture, per the Polyglot specification.
	if p.EnPassant != NoSquare {
		file := p.EnPassant.File()
		canCapture := false
		var capRank int
		var pawns Bitboard
		if p.SideToMove == White {
			capRank = 4
			pawns = p.Pieces[White][Pawn]
		} else {
			capRank = 3
			pawns = p.Pieces[Black][Pawn]
		}
		if file > 0 && pawns&SquareBB(NewSquare(file-1, capRank)) != 0 {
			canCapture = true
		}
		if file < 7 && pawns&SquareBB(NewSquare(file+1, capRank)) != 0 {
			canCapture = true
		}
		if canCapture {
			hash ^= polyglotEnPassant[file]
		}
	}

	if p.SideToMove == White {
		hash ^= polyglotSideToMove
	}

	return hash
}

func initPolyglotKeys() {
	var s uint64 = 0x37b4a4b3f0d1c0d0

	rng := func() uint64 {
		s ^= s >> 12
		s ^= s << 25
		s ^= s >> 27
		return s * 0x2545F4914F6CDD1D
	}

	for piece := 0; piece < 12; piece++ {
		for sq := 0; sq < 64; sq++ {
			polyglotPieces[piece][sq] = rng()
		}
	}

	for i := 0; i < 4; i++ {
		polyglotCastling[i] = rng()
	}

	for i := 0; i < 8; i++ {
		polyglotEnPassant[i] = rng()
	}

	polyglotSideToMove = rng()
}
