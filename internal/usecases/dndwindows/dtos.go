package dndwindows

import "github.com/medeiros-dev/notification-decision/internal/domain"

// DndWindowInputDTO is the body of POST /user/:userId/dnd-windows.
// Timezone defaults to UTC.
type DndWindowInputDTO struct {
	Days      []string `json:"days" binding:"required"`
	StartTime string   `json:"startTime" binding:"required"`
	EndTime   string   `json:"endTime" binding:"required"`
	Timezone  string   `json:"timezone"`
}

func (in DndWindowInputDTO) ToWindow() domain.DndWindow {
	return domain.DndWindow{
		Days:      in.Days,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Timezone:  in.Timezone,
	}
}

type AddWindowOutputDTO struct {
	WindowID string `json:"windowId"`
	Message  string `json:"message"`
}

type MessageOutputDTO struct {
	Message string `json:"message"`
}
