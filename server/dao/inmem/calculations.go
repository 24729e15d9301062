package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/tunacalc/internal/util"
	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/google/uuid"
)

func NewCalculationsRepository() *InMemoryCalculationsRepository {
	return &InMemoryCalculationsRepository{
		calcs:       make(map[uuid.UUID]dao.Calculation),
		byUserIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

type InMemoryCalculationsRepository struct {
	mtx         sync.RWMutex
	calcs       map[uuid.UUID]dao.Calculation
	byUserIndex map[uuid.UUID][]uuid.UUID
}

func (imcr *InMemoryCalculationsRepository) Close() error {
	return nil
}

func (imcr *InMemoryCalculationsRepository) Create(ctx context.Context, calc dao.Calculation) (dao.Calculation, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Calculation{}, fmt.Errorf("could not generate ID: %w", err)
	}

	imcr.mtx.Lock()
	defer imcr.mtx.Unlock()

	calc.ID = newUUID
	calc.Created = time.Now()

	imcr.calcs[calc.ID] = calc
	imcr.byUserIndex[calc.UserID] = append(imcr.byUserIndex[calc.UserID], calc.ID)

	return calc, nil
}

func (imcr *InMemoryCalculationsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Calculation, error) {
	imcr.mtx.RLock()
	defer imcr.mtx.RUnlock()

	calc, ok := imcr.calcs[id]
	if !ok {
		return dao.Calculation{}, dao.ErrNotFound
	}
	return calc, nil
}

func (imcr *InMemoryCalculationsRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Calculation, error) {
	imcr.mtx.RLock()
	defer imcr.mtx.RUnlock()

	ids := imcr.byUserIndex[userID]
	all := make([]dao.Calculation, 0, len(ids))
	for _, id := range ids {
		all = append(all, imcr.calcs[id])
	}

	return util.SortBy(all, func(l, r dao.Calculation) bool {
		return l.Created.Before(r.Created)
	}), nil
}

func (imcr *InMemoryCalculationsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Calculation, error) {
	imcr.mtx.Lock()
	defer imcr.mtx.Unlock()

	calc, ok := imcr.calcs[id]
	if !ok {
		return dao.Calculation{}, dao.ErrNotFound
	}

	owned := imcr.byUserIndex[calc.UserID]
	for i := range owned {
		if owned[i] == id {
			owned = append(owned[:i:i], owned[i+1:]...)
			break
		}
	}
	if len(owned) == 0 {
		delete(imcr.byUserIndex, calc.UserID)
	} else {
		imcr.byUserIndex[calc.UserID] = owned
	}
	delete(imcr.calcs, id)

	return calc, nil
}

func (imcr *InMemoryCalculationsRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Calculation, error) {
	imcr.mtx.Lock()
	defer imcr.mtx.Unlock()

	ids := imcr.byUserIndex[userID]
	removed := make([]dao.Calculation, 0, len(ids))
	for _, id := range ids {
		removed = append(removed, imcr.calcs[id])
		delete(imcr.calcs, id)
	}
	delete(imcr.byUserIndex, userID)

	return removed, nil
}
