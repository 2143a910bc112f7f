package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-knee-pipeline/models"
)

const evalResultsTable = "eval_results"

var evalResultColumns = []string{
	"run_id",
	"model_file",
	"object_name",
	"original_width",
	"original_height",
	"effective_width",
	"effective_height",
	"degradation_factor",
	"map",
	"is_knee",
	"created_at",
}

// upsertEvalResultSuffix re-evaluations replace the stored mAP of the same
// (model, class, resolution) row. Postgres and SQLite share this syntax.
const upsertEvalResultSuffix = `ON CONFLICT (model_file, object_name, original_width, original_height, effective_width, effective_height)
DO UPDATE SET run_id = excluded.run_id,
	degradation_factor = excluded.degradation_factor,
	map = excluded.map,
	is_knee = excluded.is_knee,
	created_at = excluded.created_at`

func buildUpsertResultsQuery(b sq.StatementBuilderType, results []models.EvalResult) (string, []any, error) {
	insert := b.Insert(evalResultsTable).Columns(evalResultColumns...)
	for _, r := range results {
		insert = insert.Values(
			r.RunID,
			r.ModelFile,
			r.ObjectName,
			r.Original.Width,
			r.Original.Height,
			r.Effective.Width,
			r.Effective.Height,
			r.DegradationFactor,
			r.MAP,
			r.Knee,
			r.CreatedAt,
		)
	}

	query, args, err := insert.Suffix(upsertEvalResultSuffix).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectResultsQuery(b sq.StatementBuilderType, filter models.ResultFilter) (string, []any, error) {
	query, args, err := b.Select(evalResultColumns...).
		From(evalResultsTable).
		Where(filterCondition(filter)).
		OrderBy("model_file", "object_name", "degradation_factor", "effective_width", "effective_height").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildCountResultsQuery(b sq.StatementBuilderType, key models.EvalKey) (string, []any, error) {
	query, args, err := b.Select("COUNT(*)").
		From(evalResultsTable).
		Where(sq.Eq{
			"model_file":       key.ModelFile,
			"original_width":   key.Original.Width,
			"original_height":  key.Original.Height,
			"effective_width":  key.Effective.Width,
			"effective_height": key.Effective.Height,
		}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildClearKneeQuery(b sq.StatementBuilderType, modelFile, objectName string, original models.Resolution) (string, []any, error) {
	query, args, err := b.Update(evalResultsTable).
		Set("is_knee", false).
		Where(curveCondition(modelFile, objectName, original)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSetKneeQuery(b sq.StatementBuilderType, modelFile, objectName string, original, knee models.Resolution) (string, []any, error) {
	query, args, err := b.Update(evalResultsTable).
		Set("is_knee", true).
		Where(curveCondition(modelFile, objectName, original)).
		Where(sq.Eq{
			"effective_width":  knee.Width,
			"effective_height": knee.Height,
		}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteResultsQuery(b sq.StatementBuilderType, filter models.ResultFilter) (string, []any, error) {
	query, args, err := b.Delete(evalResultsTable).
		Where(filterCondition(filter)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func curveCondition(modelFile, objectName string, original models.Resolution) sq.Eq {
	return sq.Eq{
		"model_file":      modelFile,
		"object_name":     objectName,
		"original_width":  original.Width,
		"original_height": original.Height,
	}
}

// filterCondition matches everything for an empty filter.
func filterCondition(filter models.ResultFilter) sq.And {
	cond := sq.And{}
	if filter.ModelFile != "" {
		cond = append(cond, sq.Eq{"model_file": filter.ModelFile})
	}
	if filter.ObjectName != "" {
		cond = append(cond, sq.Eq{"object_name": filter.ObjectName})
	}
	return cond
}
