package httpserver

import (
	"net/http"
	"slices"
	"time"

	"github.com/OliveiraNt/maned-bridge/internal/adapters/http/resp"
	"github.com/OliveiraNt/maned-bridge/internal/application"
	"github.com/OliveiraNt/maned-bridge/internal/cache"
	"github.com/OliveiraNt/maned-bridge/internal/domain"
	"github.com/OliveiraNt/maned-bridge/internal/query"
	"github.com/OliveiraNt/maned-bridge/internal/utils"
)

type topicRow struct {
	TopicID   string `json:"topicId"`
	TopicName string `json:"topicName"`
}

func (t topicRow) Field(name string) (string, bool) {
	switch name {
	case "topicName":
		return t.TopicName, true
	case "topicId":
		return t.TopicID, true
	}
	return "", false
}

type topicDetail struct {
	TopicID                string `json:"topicId"`
	TopicName              string `json:"topicName"`
	RetainMessageExpiredAt uint64 `json:"retainMessageExpiredAt"`
}

// topicRows projects topics ordered by name.
func topicRows(topics *cache.Map[string, domain.Topic]) []topicRow {
	snapshot := topics.Snapshot()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	slices.Sort(names)

	rows := make([]topicRow, 0, len(names))
	for _, name := range names {
		t := snapshot[name]
		rows = append(rows, topicRow{TopicID: t.TopicID, TopicName: t.TopicName})
	}
	return rows
}

func (s *Server) apiListTopics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req listRequest
	if err := decodeBody(w, r, &req); err != nil {
		utils.Logger.Warn("api list topics bad request", "err", err)
		writeResponse(s, w, r, start, fail(err))
		return
	}

	topics, err := s.topicService.List(r.Context())
	if err != nil {
		utils.Logger.Error("api list topics failed", "err", err)
		writeResponse(s, w, r, start, fail(err))
		return
	}

	page := query.Apply(topicRows(topics), req.options())
	writeResponse(s, w, r, start, resp.OK(page))
}

func (s *Server) apiCreateTopic(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req topicNameRequest
	if err := decodeBody(w, r, &req); err != nil {
		utils.Logger.Warn("api create topic bad request", "err", err)
		writeResponse(s, w, r, start, fail(err))
		return
	}
	if req.TopicName == "" {
		writeResponse(s, w, r, start, fail(application.ErrInvalidTopicName))
		return
	}

	if err := s.topicService.Save(r.Context(), req.TopicName); err != nil {
		writeResponse(s, w, r, start, fail(err))
		return
	}
	writeResponse(s, w, r, start, resp.Success())
}

func (s *Server) apiDeleteTopic(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req topicNameRequest
	if err := decodeBody(w, r, &req); err != nil {
		utils.Logger.Warn("api delete topic bad request", "err", err)
		writeResponse(s, w, r, start, fail(err))
		return
	}
	if req.TopicName == "" {
		writeResponse(s, w, r, start, fail(application.ErrInvalidTopicName))
		return
	}

	if err := s.topicService.Delete(r.Context(), req.TopicName); err != nil {
		writeResponse(s, w, r, start, fail(err))
		return
	}
	writeResponse(s, w, r, start, resp.Success())
}

func (s *Server) apiTopicDetail(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req topicNameRequest
	if err := decodeBody(w, r, &req); err != nil {
		utils.Logger.Warn("api topic detail bad request", "err", err)
		writeResponse(s, w, r, start, fail(err))
		return
	}
	if req.TopicName == "" {
		writeResponse(s, w, r, start, fail(application.ErrInvalidTopicName))
		return
	}

	topic, err := s.topicService.Get(r.Context(), req.TopicName)
	if err != nil {
		utils.Logger.Error("api topic detail failed", "topic", req.TopicName, "err", err)
		writeResponse(s, w, r, start, fail(err))
		return
	}
	if topic == nil {
		writeResponse(s, w, r, start, resp.OK[*topicDetail](nil))
		return
	}
	writeResponse(s, w, r, start, resp.OK(&topicDetail{
		TopicID:                topic.TopicID,
		TopicName:              topic.TopicName,
		RetainMessageExpiredAt: topic.RetainMessageExpiredAt,
	}))
}
