package usecase

import (
	"github.com/mizuki-lab/nocturne/pkg/domain/model"
	"github.com/mizuki-lab/nocturne/pkg/infra"
)

type UseCase struct {
	clients  *infra.Clients
	pipeline *model.Pipeline
}

func New(clients *infra.Clients, pipeline *model.Pipeline) *UseCase {
	return &UseCase{
		clients:  clients,
		pipeline: pipeline,
	}
}
