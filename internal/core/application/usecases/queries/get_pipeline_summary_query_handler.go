package queries

import (
	"context"

	"atelier/internal/core/domain/model/order"

	"gorm.io/gorm"
)

type GetPipelineSummaryQueryHandler struct {
	db *gorm.DB
}

func NewGetPipelineSummaryQueryHandler(db *gorm.DB) GetPipelineSummaryQueryHandler {
	return GetPipelineSummaryQueryHandler{db: db}
}

func (h GetPipelineSummaryQueryHandler) Handle(
	ctx context.Context,
	query GetPipelineSummaryQuery,
) (GetPipelineSummaryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetPipelineSummaryQueryResponse{}, err
	}
	viewer := query.Viewer()
	if err := viewer.AuthorizeAdmin("view pipeline summary"); err != nil {
		return GetPipelineSummaryQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			COUNT(*),
			COUNT(*) FILTER (WHERE
				(status = ? AND assigned_cutter IS NULL) OR
				(status IN (?, ?) AND assigned_tailor IS NULL) OR
				(status = ? AND assigned_finisher IS NULL))
		FROM orders
		GROUP BY status
	`,
		order.Cutting.String(),
		order.ReadyForTailoring.String(), order.InStitching.String(),
		order.ReadyForFinishing.String(),
	).Rows()
	if err != nil {
		return GetPipelineSummaryQueryResponse{}, err
	}
	defer rows.Close()

	counts := make(map[order.Status]StageCount)
	for rows.Next() {
		var (
			name              string
			total, unassigned int
		)
		if err = rows.Scan(&name, &total, &unassigned); err != nil {
			return GetPipelineSummaryQueryResponse{}, err
		}
		status, parseErr := order.ParseStatus(name)
		if parseErr != nil {
			return GetPipelineSummaryQueryResponse{}, parseErr
		}
		counts[status] = StageCount{Status: status, Total: total, Unassigned: unassigned}
	}
	if err = rows.Err(); err != nil {
		return GetPipelineSummaryQueryResponse{}, err
	}

	return summarize(counts), nil
}

func summarize(counts map[order.Status]StageCount) GetPipelineSummaryQueryResponse {
	resp := GetPipelineSummaryQueryResponse{Stages: make([]StageCount, 0, len(order.Pipeline()))}
	for _, status := range order.Pipeline() {
		c, ok := counts[status]
		if !ok {
			c = StageCount{Status: status}
		}
		resp.Stages = append(resp.Stages, c)
		resp.Total += c.Total
	}
	return resp
}
