package order

import (
	"errors"
	"time"
	"unicode/utf8"

	"courierflow/internal/pkg/errs"
	"courierflow/internal/pkg/guard"
)

const (
	MinStars         = 1
	MaxStars         = 5
	MaxCommentLength = 500
)

var ErrRatingIsNotConstructed = errors.New("Rating must be created via NewRating")

// Rating is a customer's verdict on the courier or the restaurant of a completed order.
type Rating struct {
	stars   int
	comment string
	ratedAt time.Time
	guard   guard.ConstructorGuard
}

// NewRating checks stars are within [MinStars, MaxStars] and the comment is at most
// MaxCommentLength characters.
func NewRating(stars int, comment string, ratedAt time.Time) (Rating, error) {
	var problems []error
	if stars < MinStars || stars > MaxStars {
		problems = append(problems, errs.NewValueIsOutOfRangeError("stars", stars, MinStars, MaxStars))
	}
	if n := utf8.RuneCountInString(comment); n > MaxCommentLength {
		problems = append(problems, errs.NewValueIsOutOfRangeError("comment length", n, 0, MaxCommentLength))
	}
	if err := errors.Join(problems...); err != nil {
		return Rating{}, err
	}
	return Rating{stars: stars, comment: comment, ratedAt: ratedAt, guard: guard.NewConstructorGuard()}, nil
}

func (r Rating) Validate() error {
	return r.guard.Validate(ErrRatingIsNotConstructed)
}

func (r Rating) Stars() int         { return r.stars }
func (r Rating) Comment() string    { return r.comment }
func (r Rating) RatedAt() time.Time { return r.ratedAt }
