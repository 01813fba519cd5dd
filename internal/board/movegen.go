package board

// GenMode selects which subset of legal moves to generate.
type GenMode int

const (
	// GenAll generates every legal move.
	GenAll GenMode = iota
	// GenCaptures generates captures, promotions and en passant.
	GenCaptures
	// GenQuiets generates the complement of GenCaptures.
	GenQuiets
)

// GenerateLegalMoves generates all legal moves for the position.
func (p *Position) GenerateLegalMoves() *MoveList {
	return p.GenerateMoves(GenAll)
}

// GenerateMoves generates the legal moves selected by mode. Output is
// strictly legal: generation intersects piece targets with the check
// ray and pin lines and filters king moves by the opponent attack map.
func (p *Position) GenerateMoves(mode GenMode) *MoveList {
	ml := &MoveList{}
	p.GenerateMovesInto(ml, mode)
	return ml
}

// GenerateMovesInto appends the selected legal moves to ml.
func (p *Position) GenerateMovesInto(ml *MoveList, mode GenMode) {
	p.computeMasks()

	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]
	occupied := p.AllOccupied
	enemies := p.Occupied[them]
	own := p.Occupied[us]

	genCaptures := mode == GenAll || mode == GenCaptures
	genQuiets := mode == GenAll || mode == GenQuiets

	// King moves: never onto an attacked square. The attack map is
	// built with the king removed from the blockers, so stepping back
	// along a checker's ray is correctly excluded.
	kingPiece := p.Squares[ksq]
	kingTargets := KingAttacks(ksq) & ^own & ^p.AttackedByOpp
	if genCaptures {
		for t := kingTargets & enemies; t != 0; {
			to := t.PopLSB()
			ml.Add(NewCapture(ksq, to, kingPiece, p.Squares[to]))
		}
	}
	if genQuiets {
		for t := kingTargets &^ occupied; t != 0; {
			to := t.PopLSB()
			ml.Add(NewQuiet(ksq, to, kingPiece))
		}
	}

	// During double check only king moves are legal.
	if p.DoubleCheck {
		return
	}

	p.generatePawnMoves(ml, genCaptures, genQuiets)

	for bb := p.Pieces[us][Knight]; bb != 0; {
		from := bb.PopLSB()
		targets := KnightAttacks(from) & ^own & p.CheckRay & p.pinMask(ksq, from)
		p.addPieceMoves(ml, from, targets, enemies, occupied, genCaptures, genQuiets)
	}

	for bb := p.Pieces[us][Bishop]; bb != 0; {
		from := bb.PopLSB()
		targets := BishopAttacks(from, occupied) & ^own & p.CheckRay & p.pinMask(ksq, from)
		p.addPieceMoves(ml, from, targets, enemies, occupied, genCaptures, genQuiets)
	}

	for bb := p.Pieces[us][Rook]; bb != 0; {
		from := bb.PopLSB()
		targets := RookAttacks(from, occupied) & ^own & p.CheckRay & p.pinMask(ksq, from)
		p.addPieceMoves(ml, from, targets, enemies, occupied, genCaptures, genQuiets)
	}

	for bb := p.Pieces[us][Queen]; bb != 0; {
		from := bb.PopLSB()
		targets := QueenAttacks(from, occupied) & ^own & p.CheckRay & p.pinMask(ksq, from)
		p.addPieceMoves(ml, from, targets, enemies, occupied, genCaptures, genQuiets)
	}

	if genQuiets && !p.InCheck() {
		p.generateCastlingMoves(ml)
	}
}

// pinMask returns the movement restriction for a piece: pinned pieces
// may only move along the line through the king, everything else is
// unrestricted.
func (p *Position) pinMask(ksq, from Square) Bitboard {
	if p.Pinned.IsSet(from) {
		return Line(ksq, from)
	}
	return Universe
}

func (p *Position) addPieceMoves(ml *MoveList, from Square, targets, enemies, occupied Bitboard, genCaptures, genQuiets bool) {
	piece := p.Squares[from]
	if genCaptures {
		for t := targets & enemies; t != 0; {
			to := t.PopLSB()
			ml.Add(NewCapture(from, to, piece, p.Squares[to]))
		}
	}
	if genQuiets {
		for t := targets &^ occupied; t != 0; {
			to := t.PopLSB()
			ml.Add(NewQuiet(from, to, piece))
		}
	}
}

func (p *Position) generatePawnMoves(ml *MoveList, genCaptures, genQuiets bool) {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]
	occupied := p.AllOccupied
	enemies := p.Occupied[them]

	var promoRank, startRank Bitboard
	if us == White {
		promoRank = Rank8
		startRank = Rank2
	} else {
		promoRank = Rank1
		startRank = Rank7
	}

	for bb := p.Pieces[us][Pawn]; bb != 0; {
		from := bb.PopLSB()
		fromBB := SquareBB(from)
		pawn := p.Squares[from]
		restrict := p.CheckRay & p.pinMask(ksq, from)

		// Pushes
		var single Bitboard
		if us == White {
			single = fromBB.North() & ^occupied
		} else {
			single = fromBB.South() & ^occupied
		}
		double := Empty
		if single != 0 && fromBB&startRank != 0 {
			if us == White {
				double = single.North() & ^occupied
			} else {
				double = single.South() & ^occupied
			}
		}
		for t := (single | double) & restrict; t != 0; {
			to := t.PopLSB()
			if SquareBB(to)&promoRank != 0 {
				if genCaptures {
					addPromotions(ml, from, to, pawn)
				}
			} else if genQuiets {
				ml.Add(NewQuiet(from, to, pawn))
			}
		}

		// Captures
		if genCaptures {
			for t := PawnAttacks(from, us) & enemies & restrict; t != 0; {
				to := t.PopLSB()
				victim := p.Squares[to]
				if SquareBB(to)&promoRank != 0 {
					addPromotionCaptures(ml, from, to, pawn, victim)
				} else {
					ml.Add(NewCapture(from, to, pawn, victim))
				}
			}

			if p.EnPassant != NoSquare && PawnAttacks(from, us).IsSet(p.EnPassant) {
				var victimSq Square
				if us == White {
					victimSq = p.EnPassant - 8
				} else {
					victimSq = p.EnPassant + 8
				}
				if p.epLegal(from, p.EnPassant, victimSq) {
					ml.Add(NewEnPassant(from, p.EnPassant, pawn, p.Squares[victimSq], victimSq))
				}
			}
		}
	}
}

func addPromotions(ml *MoveList, from, to Square, pawn Piece) {
	ml.Add(NewPromotion(from, to, pawn, Queen))
	ml.Add(NewPromotion(from, to, pawn, Rook))
	ml.Add(NewPromotion(from, to, pawn, Bishop))
	ml.Add(NewPromotion(from, to, pawn, Knight))
}

func addPromotionCaptures(ml *MoveList, from, to Square, pawn, victim Piece) {
	ml.Add(NewPromotionCapture(from, to, pawn, victim, Queen))
	ml.Add(NewPromotionCapture(from, to, pawn, victim, Rook))
	ml.Add(NewPromotionCapture(from, to, pawn, victim, Bishop))
	ml.Add(NewPromotionCapture(from, to, pawn, victim, Knight))
}

// epLegal validates an en passant capture by testing the king against
// the occupancy with the pusher, victim and target adjusted. This
// covers the horizontal-pin case where removing both pawns exposes the
// king along the rank, as well as capture-while-in-check.
func (p *Position) epLegal(from, to, victimSq Square) bool {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]

	occ := p.AllOccupied&^SquareBB(from)&^SquareBB(victimSq) | SquareBB(to)

	theirQueens := p.Pieces[them][Queen]
	if RookAttacks(ksq, occ)&(p.Pieces[them][Rook]|theirQueens) != 0 {
		return false
	}
	if BishopAttacks(ksq, occ)&(p.Pieces[them][Bishop]|theirQueens) != 0 {
		return false
	}
	if KnightAttacks(ksq)&p.Pieces[them][Knight] != 0 {
		return false
	}
	if PawnAttacks(ksq, us)&(p.Pieces[them][Pawn]&^SquareBB(victimSq)) != 0 {
		return false
	}
	return true
}

func (p *Position) generateCastlingMoves(ml *MoveList) {
	us := p.SideToMove

	if us == White {
		king := p.Squares[E1]
		if p.CastlingRights&WhiteKingSideCastle != 0 &&
			p.AllOccupied&(SquareBB(F1)|SquareBB(G1)) == 0 &&
			p.AttackedByOpp&(SquareBB(F1)|SquareBB(G1)) == 0 {
			ml.Add(NewCastling(E1, G1, king))
		}
		if p.CastlingRights&WhiteQueenSideCastle != 0 &&
			p.AllOccupied&(SquareBB(B1)|SquareBB(C1)|SquareBB(D1)) == 0 &&
			p.AttackedByOpp&(SquareBB(C1)|SquareBB(D1)) == 0 {
			ml.Add(NewCastling(E1, C1, king))
		}
		return
	}

	king := p.Squares[E8]
	if p.CastlingRights&BlackKingSideCastle != 0 &&
		p.AllOccupied&(SquareBB(F8)|SquareBB(G8)) == 0 &&
		p.AttackedByOpp&(SquareBB(F8)|SquareBB(G8)) == 0 {
		ml.Add(NewCastling(E8, G8, king))
	}
	if p.CastlingRights&BlackQueenSideCastle != 0 &&
		p.AllOccupied&(SquareBB(B8)|SquareBB(C8)|SquareBB(D8)) == 0 &&
		p.AttackedByOpp&(SquareBB(C8)|SquareBB(D8)) == 0 {
		ml.Add(NewCastling(E8, C8, king))
	}
}

// computeMasks refreshes the derived masks used by generation: the
// opponent attack map (sliders see through our king), the checkers and
// check ray, and the pinned-piece set.
func (p *Position) computeMasks() {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]

	occNoKing := p.AllOccupied &^ SquareBB(ksq)

	var attacked Bitboard
	theirPawns := p.Pieces[them][Pawn]
	if them == White {
		attacked = theirPawns.NorthEast() | theirPawns.NorthWest()
	} else {
		attacked = theirPawns.SouthEast() | theirPawns.SouthWest()
	}

	for bb := p.Pieces[them][Knight]; bb != 0; {
		attacked |= KnightAttacks(bb.PopLSB())
	}
	attacked |= KingAttacks(p.KingSquare[them])
	for bb := p.Pieces[them][Bishop] | p.Pieces[them][Queen]; bb != 0; {
		attacked |= BishopAttacks(bb.PopLSB(), occNoKing)
	}
	for bb := p.Pieces[them][Rook] | p.Pieces[them][Queen]; bb != 0; {
		attacked |= RookAttacks(bb.PopLSB(), occNoKing)
	}
	p.AttackedByOpp = attacked

	p.Checkers = p.AttackersByColor(ksq, them, p.AllOccupied)
	p.DoubleCheck = p.Checkers.PopCount() > 1

	switch {
	case p.Checkers == 0:
		p.CheckRay = Universe
	case p.DoubleCheck:
		p.CheckRay = Empty
	default:
		csq := p.Checkers.LSB()
		switch p.Squares[csq].Type() {
		case Bishop, Rook, Queen:
			p.CheckRay = Between(csq, ksq) | SquareBB(csq)
		default:
			p.CheckRay = SquareBB(csq)
		}
	}

	// Pinned pieces: for each enemy slider aimed at the king, the
	// single own piece standing between is pinned.
	pinned := Empty
	snipers := (RookAttacks(ksq, 0) & (p.Pieces[them][Rook] | p.Pieces[them][Queen])) |
		(BishopAttacks(ksq, 0) & (p.Pieces[them][Bishop] | p.Pieces[them][Queen]))
	for snipers != 0 {
		sq := snipers.PopLSB()
		blockers := Between(sq, ksq) & p.AllOccupied
		if blockers.PopCount() == 1 && blockers&p.Occupied[us] != 0 {
			pinned |= blockers
		}
	}
	p.Pinned = pinned
}

// HasLegalMoves returns true if the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	return p.GenerateLegalMoves().Len() > 0
}

// IsCheckmate returns true if the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the side to move is stalemated.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}
