package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/repository"
)

var _ repository.StockQueryRepository = (*StockQueryRepo)(nil)

var snapshotColumns = []string{
	"s.id", "s.product_id", "p.name AS product_name", "p.code AS product_code", "p.price",
	"s.branch_id", "b.name AS branch_name", "s.quantity", "s.minimum_stock", "s.updated_at",
}

var movementColumns = []string{
	"m.id", "m.reference_number", "m.type", "m.quantity", "COALESCE(m.notes, '') AS notes",
	"COALESCE(u.name, '') AS created_by_name", "fb.name AS from_branch_name", "tb.name AS to_branch_name",
	"m.created_at",
}

// stockOrderings órdenes admitidos. Siempre se desempata por id para paginar de forma estable.
var stockOrderings = map[string][]string{
	repository.StockSortQuantityAsc:  {"s.quantity ASC", "p.name ASC", "s.id ASC"},
	repository.StockSortQuantityDesc: {"s.quantity DESC", "p.name ASC", "s.id ASC"},
	repository.StockSortProductName:  {"p.name ASC", "b.name ASC", "s.id ASC"},
	repository.StockSortUpdatedDesc:  {"s.updated_at DESC", "s.id ASC"},
}

// StockQueryRepo consultas de lectura (listados con filtros dinámicos) con squirrel + pgxscan.
type StockQueryRepo struct {
	q       Querier
	builder squirrel.StatementBuilderType
}

// NewStockQueryRepository construye el repositorio de lectura.
func NewStockQueryRepository(q Querier) *StockQueryRepo {
	return &StockQueryRepo{
		q:       q,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetSnapshot obtiene un stock con nombres de producto y sucursal. nil, nil si no existe.
func (r *StockQueryRepo) GetSnapshot(ctx context.Context, stockID string) (*entity.StockSnapshot, error) {
	sql, args, err := r.snapshotBase(snapshotColumns...).Where(squirrel.Eq{"s.id": stockID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var snap entity.StockSnapshot
	if err := pgxscan.Get(ctx, r.q, &snap, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock snapshot: %w", err)
	}
	return &snap, nil
}

// ListSnapshots devuelve la página pedida y el total de filas que cumplen el filtro.
func (r *StockQueryRepo) ListSnapshots(ctx context.Context, f repository.StockListFilter) ([]entity.StockSnapshot, int, error) {
	countSQL, countArgs, err := r.buildSnapshotCount(f)
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stocks: %w", err)
	}
	if total == 0 {
		return []entity.StockSnapshot{}, 0, nil
	}

	sql, args, err := r.buildSnapshotList(f)
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}
	var items []entity.StockSnapshot
	if err := pgxscan.Select(ctx, r.q, &items, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list stocks: %w", err)
	}
	return items, total, nil
}

// ListMovements historial de un producto en una sucursal (origen o destino), más reciente primero.
func (r *StockQueryRepo) ListMovements(ctx context.Context, f repository.MovementHistoryFilter) ([]entity.MovementRecord, int, error) {
	countSQL, countArgs, err := r.movementBase("COUNT(*)").Where(movementScope(f)).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}
	if total == 0 {
		return []entity.MovementRecord{}, 0, nil
	}

	sql, args, err := r.buildMovementList(f)
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}
	var items []entity.MovementRecord
	if err := pgxscan.Select(ctx, r.q, &items, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	return items, total, nil
}

func (r *StockQueryRepo) snapshotBase(columns ...string) squirrel.SelectBuilder {
	return r.builder.Select(columns...).
		From("stocks s").
		Join("products p ON p.id = s.product_id").
		Join("branches b ON b.id = s.branch_id")
}

func (r *StockQueryRepo) movementBase(columns ...string) squirrel.SelectBuilder {
	return r.builder.Select(columns...).
		From("stock_movements m").
		LeftJoin("users u ON u.id = m.created_by").
		LeftJoin("branches fb ON fb.id = m.from_branch_id").
		LeftJoin("branches tb ON tb.id = m.to_branch_id")
}

func applySnapshotFilter(q squirrel.SelectBuilder, f repository.StockListFilter) squirrel.SelectBuilder {
	if f.BranchID != "" {
		q = q.Where(squirrel.Eq{"s.branch_id": f.BranchID})
	}
	if f.LowStockOnly {
		q = q.Where("s.quantity <= s.minimum_stock")
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"p.name": pattern},
			squirrel.ILike{"p.code": pattern},
		})
	}
	return q
}

func (r *StockQueryRepo) buildSnapshotCount(f repository.StockListFilter) (string, []any, error) {
	return applySnapshotFilter(r.snapshotBase("COUNT(*)"), f).ToSql()
}

func (r *StockQueryRepo) buildSnapshotList(f repository.StockListFilter) (string, []any, error) {
	order, ok := stockOrderings[f.Sort]
	if !ok {
		order = stockOrderings[repository.StockSortQuantityAsc]
	}
	q := applySnapshotFilter(r.snapshotBase(snapshotColumns...), f).OrderBy(order...)
	return paginate(q, f.Limit, f.Offset).ToSql()
}

func movementScope(f repository.MovementHistoryFilter) squirrel.Sqlizer {
	return squirrel.And{
		squirrel.Eq{"m.product_id": f.ProductID},
		squirrel.Or{
			squirrel.Eq{"m.from_branch_id": f.BranchID},
			squirrel.Eq{"m.to_branch_id": f.BranchID},
		},
	}
}

func (r *StockQueryRepo) buildMovementList(f repository.MovementHistoryFilter) (string, []any, error) {
	q := r.movementBase(movementColumns...).
		Where(movementScope(f)).
		OrderBy("m.created_at DESC", "m.id DESC")
	return paginate(q, f.Limit, f.Offset).ToSql()
}

func paginate(q squirrel.SelectBuilder, limit, offset int) squirrel.SelectBuilder {
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}
	return q
}
