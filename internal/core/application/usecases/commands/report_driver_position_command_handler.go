package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/ports"
)

type ReportDriverPositionCommandHandler struct {
	positions ports.PositionStore
}

func NewReportDriverPositionCommandHandler(positions ports.PositionStore) ReportDriverPositionCommandHandler {
	return ReportDriverPositionCommandHandler{positions: positions}
}

func (h ReportDriverPositionCommandHandler) Handle(ctx context.Context, cmd ReportDriverPositionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := cmd.Actor().Require("report driver position", identity.RoleDriver); err != nil {
		return err
	}

	return h.positions.SavePosition(ctx, cmd.Actor().ID(), cmd.Location())
}
