package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	sq "github.com/Masterminds/squirrel"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

var assetColumns = []string{"id", "asset", "publication_date", "image", "author", "created_at"}

func (r *repository) CreateAsset(ctx context.Context, asset model.Asset) (model.Asset, error) {
	asset.ID = uuid.New()
	if asset.Image == "" {
		asset.Image = model.DefaultImage
	}
	query, args, err := qb.Insert(assetsTableName).
		Columns(assetColumns...).
		Values(asset.ID, asset.Asset, asset.PublicationDate, asset.Image, asset.Author, asset.CreatedAt).
		ToSql()
	if err != nil {
		return model.Asset{}, err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return model.Asset{}, pgError(err, "CreateAsset")
	}
	return asset, nil
}

// ListAssets returns the assets referenced by a loan (onLoan) or the ones
// no loan references, newest first. Both sets come from one statement.
func (r *repository) ListAssets(ctx context.Context, onLoan bool) ([]model.Asset, error) {
	membership := "not in"
	if onLoan {
		membership = "in"
	}
	query, args, err := qb.Select(assetColumns...).
		From(assetsTableName).
		Where(sq.Expr(fmt.Sprintf("id %s (select asset_id from %s)", membership, loansTableName))).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("ListAssets", zap.String("query", query), zap.Bool("onLoan", onLoan))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, pgError(err, "ListAssets")
	}
	defer rows.Close()

	assets, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Asset])
	if err != nil {
		return nil, pgError(err, "ListAssets")
	}
	return assets, nil
}

// DeleteAsset removes the asset; its loan, if any, goes with it.
func (r *repository) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	query, args, err := qb.Delete(assetsTableName).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return pgError(err, "DeleteAsset")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrap(errs.ErrNotFound, "asset")
	}
	return nil
}

func (r *repository) SetAssetImage(ctx context.Context, id uuid.UUID, image string) error {
	query, args, err := qb.Update(assetsTableName).
		Set("image", image).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return pgError(err, "SetAssetImage")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrap(errs.ErrNotFound, "asset")
	}
	return nil
}
