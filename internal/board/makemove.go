package board

// undoState is the reversible game-state snapshot pushed on every make
// and popped on unmake. Piece placement is reverted by inverse edits,
// not by snapshot.
type undoState struct {
	castlingRights CastlingRights
	enPassant      Square
	halfMoveClock  int
	hash           uint64
	checkers       Bitboard
	doubleCheck    bool
}

func (p *Position) snapshot() undoState {
	return undoState{
		castlingRights: p.CastlingRights,
		enPassant:      p.EnPassant,
		halfMoveClock:  p.HalfMoveClock,
		hash:           p.Hash,
		checkers:       p.Checkers,
		doubleCheck:    p.DoubleCheck,
	}
}

func (p *Position) restore(u undoState) {
	p.CastlingRights = u.castlingRights
	p.EnPassant = u.enPassant
	p.HalfMoveClock = u.halfMoveClock
	p.Hash = u.hash
	p.Checkers = u.checkers
	p.DoubleCheck = u.doubleCheck
}

// castleRookSquares returns the rook's from/to squares for a castling
// move given the king's destination.
func castleRookSquares(kingFrom, kingTo Square) (Square, Square) {
	if kingTo > kingFrom {
		// Kingside
		return NewSquare(7, kingFrom.Rank()), NewSquare(5, kingFrom.Rank())
	}
	// Queenside
	return NewSquare(0, kingFrom.Rank()), NewSquare(3, kingFrom.Rank())
}

// MakeMove applies a legal move to the position, updating the piece
// placement, bitboards, PSQT accumulators, Zobrist key and clocks, and
// pushing the reversible state onto the undo stack.
func (p *Position) MakeMove(m Move) {
	p.history = append(p.history, p.snapshot())

	us := p.SideToMove
	them := us.Other()
	from, to := m.From, m.To
	pt := m.Piece.Type()

	p.Hash ^= zobristSideToMove
	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare

	// Remove the victim first.
	switch m.Kind {
	case EnPassant:
		p.removePiece(m.VictimSq)
		p.Hash ^= zobristPiece[them][Pawn][m.VictimSq]
	case Capture, PromotionCapture:
		p.removePiece(to)
		p.Hash ^= zobristPiece[them][m.Victim.Type()][to]
	}

	// Move the piece; a promotion swaps the pawn for the new piece.
	if m.IsPromotion() {
		p.removePiece(from)
		p.addPiece(NewPiece(m.Promo, us), to)
		p.Hash ^= zobristPiece[us][Pawn][from]
		p.Hash ^= zobristPiece[us][m.Promo][to]
	} else {
		p.movePiece(from, to)
		p.Hash ^= zobristPiece[us][pt][from]
		p.Hash ^= zobristPiece[us][pt][to]
	}

	if m.Kind == Castle {
		rookFrom, rookTo := castleRookSquares(from, to)
		p.movePiece(rookFrom, rookTo)
		p.Hash ^= zobristPiece[us][Rook][rookFrom]
		p.Hash ^= zobristPiece[us][Rook][rookTo]
	}

	// Castling rights: king moves clear both rights for the side; a
	// rook leaving or being captured on its home corner clears one.
	if pt == King {
		if us == White {
			p.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			p.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	if from == A1 || to == A1 {
		p.CastlingRights &^= WhiteQueenSideCastle
	}
	if from == H1 || to == H1 {
		p.CastlingRights &^= WhiteKingSideCastle
	}
	if from == A8 || to == A8 {
		p.CastlingRights &^= BlackQueenSideCastle
	}
	if from == H8 || to == H8 {
		p.CastlingRights &^= BlackKingSideCastle
	}
	p.Hash ^= zobristCastling[p.CastlingRights]

	// A pawn double push sets the en passant square behind the pusher.
	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		ep := Square((int(from) + int(to)) / 2)
		p.EnPassant = ep
		p.Hash ^= zobristEnPassant[ep.File()]
	}

	if pt == Pawn || m.IsCapture() {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.UpdateCheckers()

	if !p.InSearch {
		if p.repetitions == nil {
			p.repetitions = make(map[uint64]int)
		}
		p.repetitions[p.Hash]++
	}
}

// UnmakeMove reverses a move made by MakeMove. The position afterwards
// is identical to the position before the corresponding make, Zobrist
// key included.
func (p *Position) UnmakeMove(m Move) {
	if !p.InSearch {
		if n := p.repetitions[p.Hash]; n <= 1 {
			delete(p.repetitions, p.Hash)
		} else {
			p.repetitions[p.Hash] = n - 1
		}
	}

	them := p.SideToMove
	us := them.Other()
	from, to := m.From, m.To

	p.SideToMove = us
	if us == Black {
		p.FullMoveNumber--
	}

	if m.IsPromotion() {
		p.removePiece(to)
		p.addPiece(m.Piece, from)
	} else {
		p.movePiece(to, from)
	}

	if m.Kind == Castle {
		rookFrom, rookTo := castleRookSquares(from, to)
		p.movePiece(rookTo, rookFrom)
	}

	switch m.Kind {
	case EnPassant:
		p.addPiece(m.Victim, m.VictimSq)
	case Capture, PromotionCapture:
		p.addPiece(m.Victim, to)
	}

	p.restore(p.history[len(p.history)-1])
	p.history = p.history[:len(p.history)-1]
}

// MakeNullMove passes the turn without moving, clearing en passant
// state. It must not be used while in check.
func (p *Position) MakeNullMove() {
	p.history = append(p.history, p.snapshot())

	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
		p.EnPassant = NoSquare
	}

	p.SideToMove = p.SideToMove.Other()
	p.Hash ^= zobristSideToMove
	p.UpdateCheckers()
}

// UnmakeNullMove reverses MakeNullMove.
func (p *Position) UnmakeNullMove() {
	p.SideToMove = p.SideToMove.Other()
	p.restore(p.history[len(p.history)-1])
	p.history = p.history[:len(p.history)-1]
}
