package board

// MoveKind tags the variant of a move.
type MoveKind uint8

const (
	Quiet MoveKind = iota
	Capture
	Castle
	Promotion
	PromotionCapture
	EnPassant
)

// Move is an immutable move record: origin, target, the moving piece,
// and a variant tag with the data the variant needs. Victim and Promo
// hold NoPiece/NoPieceType for variants that do not carry them, so two
// moves are equal exactly when all fields match.
type Move struct {
	From, To Square
	Piece    Piece
	Kind     MoveKind
	Victim   Piece     // captured piece, NoPiece otherwise
	VictimSq Square    // square the victim stands on (differs from To only en passant)
	Promo    PieceType // promotion piece type, NoPieceType otherwise
}

// NoMove is the zero move, used as an absent-move sentinel. It cannot
// equal any constructed move because constructors always fill the
// Victim/Promo/VictimSq sentinels.
var NoMove = Move{}

// NewQuiet creates a non-capturing move.
func NewQuiet(from, to Square, piece Piece) Move {
	return Move{From: from, To: to, Piece: piece, Kind: Quiet,
		Victim: NoPiece, VictimSq: NoSquare, Promo: NoPieceType}
}

// NewCapture creates a capture of victim on the target square.
func NewCapture(from, to Square, piece, victim Piece) Move {
	return Move{From: from, To: to, Piece: piece, Kind: Capture,
		Victim: victim, VictimSq: to, Promo: NoPieceType}
}

// NewCastling creates a castling move, encoded as the king's two-square hop.
func NewCastling(from, to Square, king Piece) Move {
	return Move{From: from, To: to, Piece: king, Kind: Castle,
		Victim: NoPiece, VictimSq: NoSquare, Promo: NoPieceType}
}

// NewPromotion creates a non-capturing promotion.
func NewPromotion(from, to Square, pawn Piece, promo PieceType) Move {
	return Move{From: from, To: to, Piece: pawn, Kind: Promotion,
		Victim: NoPiece, VictimSq: NoSquare, Promo: promo}
}

// NewPromotionCapture creates a capturing promotion.
func NewPromotionCapture(from, to Square, pawn, victim Piece, promo PieceType) Move {
	return Move{From: from, To: to, Piece: pawn, Kind: PromotionCapture,
		Victim: victim, VictimSq: to, Promo: promo}
}

// NewEnPassant creates an en passant capture. victimSq is the square of
// the captured pawn, one rank behind the target.
func NewEnPassant(from, to Square, pawn, victim Piece, victimSq Square) Move {
	return Move{From: from, To: to, Piece: pawn, Kind: EnPassant,
		Victim: victim, VictimSq: victimSq, Promo: NoPieceType}
}

// IsCapture returns true if the move removes an enemy piece.
func (m Move) IsCapture() bool {
	return m.Kind == Capture || m.Kind == PromotionCapture || m.Kind == EnPassant
}

// IsPromotion returns true for both promotion variants.
func (m Move) IsPromotion() bool {
	return m.Kind == Promotion || m.Kind == PromotionCapture
}

// IsQuiet returns true if the move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// String returns the UCI long-algebraic form (e.g. "e2e4", "e7e8q").
// Castling is rendered as the king's two-square move.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From.String() + m.To.String()

	if m.IsPromotion() {
		promoChars := [6]byte{' ', 'n', 'b', 'r', 'q', ' '}
		s += string(promoChars[m.Promo])
	}

	return s
}

// MaxMoves is the theoretical maximum number of legal moves in a position.
const MaxMoves = 218

// MoveList is a fixed-size move buffer to avoid allocations.
type MoveList struct {
	moves [MaxMoves]Move
	count int
}

// Add appends a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice backed by the list buffer.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
