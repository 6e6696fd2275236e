package brackets

import "errors"

var (
	ErrInvalidGroupCount      = errors.New("group count must be positive")
	ErrInvalidTeamCount       = errors.New("team count is not an exact multiple of the group count")
	ErrInvalidGroupSize       = errors.New("no fixture template for this group size")
	ErrDuplicateTeam          = errors.New("team appears more than once in the draw")
	ErrUnknownPotLetter       = errors.New("pot letter has no team assigned")
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchAlreadyPlayed     = errors.New("match has already been played")
	ErrNegativeScore          = errors.New("scores must be non-negative")
	ErrGroupTooSmall          = errors.New("group has fewer teams than requested positions")
	ErrNotEnoughGroups        = errors.New("not enough groups to select the requested runners-up")
	ErrNegativeSelection      = errors.New("qualifier selection counts must be non-negative")
	ErrQualifierCountMismatch = errors.New("selected qualifier count does not match the expected count")
	ErrUnsupportedBracketSize = errors.New("knockout bracket needs 8 or 16 groups")
	ErrUnresolvedWinner       = errors.New("level scores need a decisive penalty shoot-out")
	ErrBracketLocked          = errors.New("knockout bracket has played matches")
)
