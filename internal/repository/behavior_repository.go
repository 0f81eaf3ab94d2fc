package repository

import (
	"teamwelly_backend/internal/model"
	"teamwelly_backend/pkg/docstore"
	"time"
)

// BehaviorRepository 行为事件流，只追加不修改
type BehaviorRepository struct {
	Events *docstore.Collection
}

func NewBehaviorRepository(store *docstore.Store) *BehaviorRepository {
	return &BehaviorRepository{Events: store.Collection("user_behavior")}
}

func (r *BehaviorRepository) Insert(ev *model.BehaviorEvent) string {
	doc := docstore.Document{
		"user_id":       ev.UserID,
		"action":        ev.Action,
		"page":          ev.Page,
		"points_earned": ev.PointsEarned,
		"timestamp":     ev.Timestamp,
	}
	if ev.Details != nil {
		doc["details"] = ev.Details
	}
	if ev.SessionID != "" {
		doc["session_id"] = ev.SessionID
	}
	id := r.Events.Insert(doc)
	ev.ID = id
	return id
}

// FindSince 返回窗口内的事件，按发生时间正序
func (r *BehaviorRepository) FindSince(userID uint, since time.Time) []model.BehaviorEvent {
	docs := r.Events.Find(docstore.Filter{
		"user_id":   userID,
		"timestamp": docstore.Range{Gte: since},
	}).Sort("timestamp", 1).All()
	return decodeEvents(docs)
}

// FindRecent 返回窗口内最近的 limit 条事件，按时间倒序
func (r *BehaviorRepository) FindRecent(userID uint, since time.Time, limit int) []model.BehaviorEvent {
	docs := r.Events.Find(docstore.Filter{
		"user_id":   userID,
		"timestamp": docstore.Range{Gte: since},
	}).Sort("timestamp", -1).Limit(limit).All()
	return decodeEvents(docs)
}

func (r *BehaviorRepository) CountSince(userID uint, since time.Time) int {
	return r.Events.Count(docstore.Filter{
		"user_id":   userID,
		"timestamp": docstore.Range{Gte: since},
	})
}

func decodeEvents(docs []docstore.Document) []model.BehaviorEvent {
	events := make([]model.BehaviorEvent, 0, len(docs))
	for _, d := range docs {
		ev := model.BehaviorEvent{}
		ev.ID, _ = d["_id"].(string)
		if v, ok := d["user_id"].(uint); ok {
			ev.UserID = v
		}
		ev.Action, _ = d["action"].(string)
		ev.Page, _ = d["page"].(string)
		ev.SessionID, _ = d["session_id"].(string)
		if v, ok := d["details"].(map[string]interface{}); ok {
			ev.Details = v
		}
		if v, ok := d["points_earned"].(int); ok {
			ev.PointsEarned = v
		}
		if v, ok := d["timestamp"].(time.Time); ok {
			ev.Timestamp = v
		}
		events = append(events, ev)
	}
	return events
}
