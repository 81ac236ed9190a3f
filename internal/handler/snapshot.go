package handler

import (
	"net/http"

	"github.com/paigong/paigong/pkg/errors"
	"github.com/paigong/paigong/pkg/logger"
	"github.com/paigong/paigong/pkg/model"
)

// SnapshotInfo 快照元信息输出
type SnapshotInfo struct {
	ScenarioID  string `json:"scenario_id"`
	RecordCount int    `json:"record_count"`
	UpdatedAt   string `json:"updated_at"`
}

// SaveSnapshot 持久化单个场景的派工状态
// POST /api/snapshot/save?scenario_id=xxx
// 快照是不透明blob，写穿到数据库并回填缓存
func (h *Handler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}
	if h.snapshots == nil {
		respondError(w, errors.New(errors.CodeDatabaseError, "快照持久化未配置"))
		return
	}

	scenarioID := r.URL.Query().Get("scenario_id")
	if scenarioID == "" {
		respondError(w, errors.InvalidInput("scenario_id", "不能为空"))
		return
	}

	h.mu.RLock()
	state := h.book.Get(scenarioID)
	if state == nil {
		h.mu.RUnlock()
		respondError(w, errors.ScenarioNotFound(scenarioID))
		return
	}
	blob, err := state.Snapshot()
	recordCount := len(state.Records)
	h.mu.RUnlock()

	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInternal, "序列化快照失败"))
		return
	}

	snap, err := h.snapshots.Save(r.Context(), scenarioID, blob, recordCount)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "保存快照失败"))
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), scenarioID, blob); err != nil {
			// 缓存失败不影响主流程
			logger.Warn().Err(err).Str("scenario_id", scenarioID).Msg("写入快照缓存失败")
		}
	}

	respondJSON(w, http.StatusOK, SnapshotInfo{
		ScenarioID:  snap.ScenarioID,
		RecordCount: snap.RecordCount,
		UpdatedAt:   snap.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// RestoreSnapshot 从持久化快照恢复场景状态
// POST /api/snapshot/restore?scenario_id=xxx
// 先查缓存，未命中再读库；恢复后partial标志按槽位重新派生
func (h *Handler) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}
	if h.snapshots == nil {
		respondError(w, errors.New(errors.CodeDatabaseError, "快照持久化未配置"))
		return
	}

	scenarioID := r.URL.Query().Get("scenario_id")
	if scenarioID == "" {
		respondError(w, errors.InvalidInput("scenario_id", "不能为空"))
		return
	}

	var blob []byte
	if h.cache != nil {
		cached, err := h.cache.Get(r.Context(), scenarioID)
		if err != nil {
			logger.Warn().Err(err).Str("scenario_id", scenarioID).Msg("读取快照缓存失败")
		} else {
			blob = cached
		}
	}

	if blob == nil {
		snap, err := h.snapshots.Load(r.Context(), scenarioID)
		if err != nil {
			respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "读取快照失败"))
			return
		}
		if snap == nil {
			respondError(w, errors.NotFound("快照", scenarioID))
			return
		}
		blob = snap.Blob
	}

	state, err := model.RestoreScenarioState(blob)
	if err != nil {
		respondError(w, errors.SnapshotCorrupt(err.Error()))
		return
	}

	h.mu.Lock()
	h.book[scenarioID] = state
	delete(h.runs, scenarioID)
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"scenario_id":  scenarioID,
		"record_count": len(state.Records),
		"restored":     true,
	})
}

// ListSnapshots 列出全部已持久化快照
// GET /api/snapshot/list
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}
	if h.snapshots == nil {
		respondError(w, errors.New(errors.CodeDatabaseError, "快照持久化未配置"))
		return
	}

	snaps, err := h.snapshots.List(r.Context())
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "列出快照失败"))
		return
	}

	infos := make([]SnapshotInfo, 0, len(snaps))
	for _, snap := range snaps {
		infos = append(infos, SnapshotInfo{
			ScenarioID:  snap.ScenarioID,
			RecordCount: snap.RecordCount,
			UpdatedAt:   snap.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": infos,
		"total":     len(infos),
	})
}

// DeleteSnapshot 删除单个场景的持久化快照
// DELETE /api/snapshot/delete?scenario_id=xxx
func (h *Handler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete && r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持DELETE/POST方法"))
		return
	}
	if h.snapshots == nil {
		respondError(w, errors.New(errors.CodeDatabaseError, "快照持久化未配置"))
		return
	}

	scenarioID := r.URL.Query().Get("scenario_id")
	if scenarioID == "" {
		respondError(w, errors.InvalidInput("scenario_id", "不能为空"))
		return
	}

	if err := h.snapshots.Delete(r.Context(), scenarioID); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "删除快照失败"))
		return
	}
	if h.cache != nil {
		if err := h.cache.Delete(r.Context(), scenarioID); err != nil {
			logger.Warn().Err(err).Str("scenario_id", scenarioID).Msg("删除快照缓存失败")
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"scenario_id": scenarioID,
		"deleted":     true,
	})
}
