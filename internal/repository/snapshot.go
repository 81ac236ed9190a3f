// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Snapshot 场景快照记录
// Blob 是场景派工状态的原样序列化结果，仓储层不解释其内容
type Snapshot struct {
	ID          uuid.UUID `json:"id"`
	ScenarioID  string    `json:"scenario_id"`
	Blob        []byte    `json:"blob"`
	RecordCount int       `json:"record_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SnapshotRepositoryInterface 快照仓储接口
type SnapshotRepositoryInterface interface {
	Save(ctx context.Context, scenarioID string, blob []byte, recordCount int) (*Snapshot, error)
	Load(ctx context.Context, scenarioID string) (*Snapshot, error)
	List(ctx context.Context) ([]*Snapshot, error)
	Delete(ctx context.Context, scenarioID string) error
}

// SnapshotRepository 快照仓储实现
type SnapshotRepository struct {
	db DB
}

// NewSnapshotRepository 创建快照仓储
func NewSnapshotRepository(db DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save 保存场景快照（同场景覆盖写）
func (r *SnapshotRepository) Save(ctx context.Context, scenarioID string, blob []byte, recordCount int) (*Snapshot, error) {
	now := time.Now()
	snapshot := &Snapshot{
		ID:          uuid.New(),
		ScenarioID:  scenarioID,
		Blob:        blob,
		RecordCount: recordCount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query := `
		INSERT INTO scenario_snapshots (id, scenario_id, blob, record_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (scenario_id) DO UPDATE SET
			blob = EXCLUDED.blob,
			record_count = EXCLUDED.record_count,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query,
		snapshot.ID, snapshot.ScenarioID, snapshot.Blob,
		snapshot.RecordCount, snapshot.CreatedAt, snapshot.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("保存场景快照失败: %w", err)
	}

	return snapshot, nil
}

// Load 读取场景快照，不存在时返回 nil
func (r *SnapshotRepository) Load(ctx context.Context, scenarioID string) (*Snapshot, error) {
	query := `
		SELECT id, scenario_id, blob, record_count, created_at, updated_at
		FROM scenario_snapshots
		WHERE scenario_id = $1`

	snapshot := &Snapshot{}
	err := r.db.QueryRowContext(ctx, query, scenarioID).Scan(
		&snapshot.ID, &snapshot.ScenarioID, &snapshot.Blob,
		&snapshot.RecordCount, &snapshot.CreatedAt, &snapshot.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取场景快照失败: %w", err)
	}
	return snapshot, nil
}

// List 列出全部场景快照（按更新时间倒序）
func (r *SnapshotRepository) List(ctx context.Context) ([]*Snapshot, error) {
	query := `
		SELECT id, scenario_id, blob, record_count, created_at, updated_at
		FROM scenario_snapshots
		ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询场景快照失败: %w", err)
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		snapshot := &Snapshot{}
		if err := rows.Scan(
			&snapshot.ID, &snapshot.ScenarioID, &snapshot.Blob,
			&snapshot.RecordCount, &snapshot.CreatedAt, &snapshot.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描快照记录失败: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

// Delete 删除场景快照
func (r *SnapshotRepository) Delete(ctx context.Context, scenarioID string) error {
	query := `DELETE FROM scenario_snapshots WHERE scenario_id = $1`
	if _, err := r.db.ExecContext(ctx, query, scenarioID); err != nil {
		return fmt.Errorf("删除场景快照失败: %w", err)
	}
	return nil
}
