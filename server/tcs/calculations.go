package tcs

import (
	"context"
	"errors"

	"github.com/dekarrin/tunacalc/internal/expr"
	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/serr"
	"github.com/google/uuid"
)

// Calculate evaluates expression in the named dialect. An empty dialect means
// strict. If owner is not uuid.Nil, the calculation is saved to that user's
// history and the stored Calculation is returned; otherwise the returned
// Calculation has no ID.
//
// The returned error, if non-nil, will match serr.ErrBadArgument if dialect is
// not a dialect, serr.ErrEvaluation if the expression does not evaluate, and
// serr.ErrDB if it could not be stored. Evaluation failures also wrap the
// evaluator error, so tcerrors.Message gives its full diagnostic.
func (svc Service) Calculate(ctx context.Context, expression, dialect string, owner uuid.UUID) (dao.Calculation, error) {
	d := expr.Strict
	if dialect != "" {
		var err error
		d, err = expr.ParseDialect(dialect)
		if err != nil {
			return dao.Calculation{}, serr.New("", err, serr.ErrBadArgument)
		}
	}

	value, err := svc.evaluator(d).EvaluateString(expression)
	if err != nil {
		return dao.Calculation{}, serr.New("could not evaluate", err, serr.ErrEvaluation)
	}

	calc := dao.Calculation{
		UserID:     owner,
		Expression: expression,
		Dialect:    d.String(),
		Result:     value,
	}

	if owner == uuid.Nil {
		return calc, nil
	}

	stored, err := svc.DB.Calculations().Create(ctx, calc)
	if err != nil {
		return dao.Calculation{}, serr.WrapDB("could not save calculation", err)
	}

	return stored, nil
}

// GetCalculation returns the calculation with the given ID.
//
// The returned error, if non-nil, will match serr.ErrBadArgument if the ID is
// malformed, serr.ErrNotFound if no such calculation exists, and serr.ErrDB
// for other problems with the DB.
func (svc Service) GetCalculation(ctx context.Context, id string) (dao.Calculation, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Calculation{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	calc, err := svc.DB.Calculations().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Calculation{}, serr.ErrNotFound
		}
		return dao.Calculation{}, serr.WrapDB("could not get calculation", err)
	}

	return calc, nil
}

// GetUserCalculations returns every calculation saved by the user, oldest
// first.
func (svc Service) GetUserCalculations(ctx context.Context, userID uuid.UUID) ([]dao.Calculation, error) {
	calcs, err := svc.DB.Calculations().GetAllByUser(ctx, userID)
	if err != nil {
		return nil, serr.WrapDB("could not get calculations", err)
	}

	return calcs, nil
}

// DeleteCalculation deletes the calculation with the given ID and returns it
// as it was just before deletion. Errors match the same values as
// GetCalculation.
func (svc Service) DeleteCalculation(ctx context.Context, id string) (dao.Calculation, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Calculation{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	calc, err := svc.DB.Calculations().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Calculation{}, serr.ErrNotFound
		}
		return dao.Calculation{}, serr.WrapDB("could not delete calculation", err)
	}

	return calc, nil
}
