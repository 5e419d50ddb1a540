package interfaces

import (
	"context"

	"github.com/mizuki-lab/nocturne/pkg/domain/model"
)

//go:generate moq -out ../mock/usecase.go -pkg mock . UseCase

type UseCase interface {
	RunPipeline(ctx context.Context, trigger *model.Trigger) (*model.RunReport, error)
}
