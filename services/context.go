package services

import (
	"sort"
	"strings"
	"time"

	"relay/models"
	"relay/services/logger"

	"github.com/lib/pq"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"gorm.io/gorm"
)

// Priority tier của từng chiến lược tìm kiếm, số nhỏ xếp trước
const (
	tierKeywordArray = 1 // trùng mảng keyword
	tierSubstring    = 2 // khớp chuỗi con ILIKE
	tierSharedLog    = 3 // tìm trên bảng external_logs dùng chung (cross-tenant)
	tierRecent       = 4 // fallback: các dòng mới nhất
)

// ContextRecord là một dòng hội thoại cũ được đưa vào prompt
type ContextRecord struct {
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
	Priority  int       `json:"-"`
}

// ContextRetriever gộp nhiều chiến lược truy vấn trên cùng store.
// Từng chiến lược fail độc lập, Search luôn trả về kết quả (có thể rỗng).
type ContextRetriever struct {
	DB     *gorm.DB
	Logger logger.Logger
}

// NewContextRetriever tạo ContextRetriever
func NewContextRetriever(db *gorm.DB, log logger.Logger) *ContextRetriever {
	return &ContextRetriever{DB: db, Logger: log}
}

// Search trả về các hội thoại cũ liên quan đến bộ từ khóa, scope theo user.
func (r *ContextRetriever) Search(keywords []string, userID string, limit int) []ContextRecord {
	if limit <= 0 {
		limit = 5
	}

	if len(keywords) == 0 {
		return r.searchRecent(userID, limit)
	}

	keywords = r.canonicalizeKeywords(keywords)

	var merged []ContextRecord
	merged = append(merged, r.searchByKeywordArray(keywords, userID, limit)...)
	merged = append(merged, r.searchBySubstring(keywords, userID, limit)...)

	if len(merged) == 0 {
		// Cross-tenant: bảng ingestion dùng chung, không đảm bảo isolation.
		merged = append(merged, r.searchSharedLogs(keywords, limit)...)
	}
	if len(merged) == 0 {
		merged = append(merged, r.searchRecent(userID, limit)...)
	}

	return MergeAndRank(merged, limit)
}

// canonicalizeKeywords chuẩn hóa keyword về từ vựng đã lưu trong DB
// (gõ sai nhẹ vẫn khớp được mảng keywords của các dòng cũ).
func (r *ContextRetriever) canonicalizeKeywords(keywords []string) []string {
	vocab, err := r.keywordVocabulary(200)
	if err != nil || len(vocab) == 0 {
		return keywords
	}

	cm := closestmatch.New(vocab, []int{2, 3})
	result := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		match := cm.Closest(kw)
		if match != "" && match != kw {
			distance := levenshtein.DistanceForStrings([]rune(kw), []rune(match), levenshtein.DefaultOptions)
			if distance > 0 && distance <= 1 {
				result = append(result, match)
				continue
			}
		}
		result = append(result, kw)
	}
	return result
}

func (r *ContextRetriever) keywordVocabulary(rowLimit int) ([]string, error) {
	var rows []models.Conversation
	if err := r.DB.Select("keywords").Order("created_at DESC").Limit(rowLimit).Find(&rows).Error; err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var vocab []string
	for _, row := range rows {
		for _, kw := range row.Keywords {
			if !seen[kw] {
				seen[kw] = true
				vocab = append(vocab, kw)
			}
		}
	}
	return vocab, nil
}

// Chiến lược (a): trùng mảng keywords (text[] overlap), tier cao nhất
func (r *ContextRetriever) searchByKeywordArray(keywords []string, userID string, limit int) []ContextRecord {
	var rows []models.Conversation
	err := r.DB.
		Where("user_id = ?", userID).
		Where("keywords && ?", pq.StringArray(keywords)).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		r.Logger.Error("tìm theo mảng keyword thất bại (user=%s): %v", userID, err)
		return nil
	}
	return conversationsToRecords(rows, tierKeywordArray)
}

// Chiến lược (b): ILIKE từng keyword trên cả message lẫn response
func (r *ContextRetriever) searchBySubstring(keywords []string, userID string, limit int) []ContextRecord {
	query := r.DB.Where("user_id = ?", userID)

	sub := r.DB.Session(&gorm.Session{NewDB: true})
	for i, kw := range keywords {
		pattern := "%" + kw + "%"
		if i == 0 {
			sub = sub.Where("user_message ILIKE ? OR ai_response ILIKE ?", pattern, pattern)
		} else {
			sub = sub.Or("user_message ILIKE ? OR ai_response ILIKE ?", pattern, pattern)
		}
	}

	var rows []models.Conversation
	err := query.Where(sub).Order("created_at DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		r.Logger.Error("tìm theo chuỗi con thất bại (user=%s): %v", userID, err)
		return nil
	}
	return conversationsToRecords(rows, tierSubstring)
}

// Chiến lược (c): bảng external_logs dùng chung, không scope theo user
func (r *ContextRetriever) searchSharedLogs(keywords []string, limit int) []ContextRecord {
	sub := r.DB.Session(&gorm.Session{NewDB: true})
	for i, kw := range keywords {
		pattern := "%" + kw + "%"
		if i == 0 {
			sub = sub.Where("message ILIKE ?", pattern)
		} else {
			sub = sub.Or("message ILIKE ?", pattern)
		}
	}

	var rows []models.ExternalLog
	err := r.DB.Where(sub).Order("created_at DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		r.Logger.Error("tìm trên external_logs thất bại: %v", err)
		return nil
	}

	records := make([]ContextRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ContextRecord{
			Message:   row.Message,
			CreatedAt: row.CreatedAt,
			Source:    row.Platform,
			Priority:  tierSharedLog,
		})
	}
	return records
}

// Chiến lược (d): không có keyword / mọi chiến lược đều rỗng -> N dòng mới nhất
func (r *ContextRetriever) searchRecent(userID string, limit int) []ContextRecord {
	var rows []models.Conversation
	err := r.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		r.Logger.Error("lấy hội thoại gần nhất thất bại (user=%s): %v", userID, err)
		return nil
	}
	return conversationsToRecords(rows, tierRecent)
}

func conversationsToRecords(rows []models.Conversation, tier int) []ContextRecord {
	records := make([]ContextRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ContextRecord{
			Message:   row.UserMessage,
			Response:  row.AIResponse,
			CreatedAt: row.CreatedAt,
			Source:    row.SourcePlatform,
			Priority:  tier,
		})
	}
	return records
}

// MergeAndRank gộp kết quả các chiến lược: dedup theo 50 ký tự đầu của
// message (kèm timestamp), gộp thêm các dòng gần-trùng (levenshtein),
// sort theo tier rồi theo thời gian giảm dần, cắt theo limit.
func MergeAndRank(records []ContextRecord, limit int) []ContextRecord {
	seen := map[string]bool{}
	var kept []ContextRecord

	// Giữ bản ghi tier tốt nhất cho mỗi dedup key, nên sort trước khi dedup
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Priority != records[j].Priority {
			return records[i].Priority < records[j].Priority
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	for _, rec := range records {
		key := dedupKey(rec)
		if seen[key] {
			continue
		}
		if isNearDuplicate(rec, kept) {
			continue
		}
		seen[key] = true
		kept = append(kept, rec)
		if len(kept) >= limit {
			break
		}
	}

	return kept
}

func dedupKey(rec ContextRecord) string {
	runes := []rune(rec.Message)
	if len(runes) > 50 {
		runes = runes[:50]
	}
	return string(runes) + "|" + rec.CreatedAt.Format("2006-01-02 15:04:05")
}

// isNearDuplicate lọc các message chỉ khác nhau vài ký tự
func isNearDuplicate(rec ContextRecord, kept []ContextRecord) bool {
	msg := strings.TrimSpace(rec.Message)
	if len([]rune(msg)) < 10 {
		return false
	}
	for _, k := range kept {
		other := strings.TrimSpace(k.Message)
		distance := levenshtein.DistanceForStrings([]rune(msg), []rune(other), levenshtein.DefaultOptions)
		if distance <= 3 && rec.CreatedAt.Equal(k.CreatedAt) {
			return true
		}
	}
	return false
}
