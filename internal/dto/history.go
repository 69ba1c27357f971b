package dto

import "time"

// HistoryEntryResponse 单条观看记录
type HistoryEntryResponse struct {
	WatchedAt time.Time      `json:"watched_at"`
	Video     *VideoResponse `json:"video"`
}

// HistoryDayResponse 按观看者本地日期分组的一天记录
type HistoryDayResponse struct {
	Date    string                 `json:"date"`
	Entries []*HistoryEntryResponse `json:"entries"`
}
