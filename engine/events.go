package engine

import (
	"graphboard/geometry"
	"graphboard/model"
)

// PointerKind distinguishes pointer events.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerLeave
	DoubleClick
	Wheel
)

// PointerEvent is a host pointer event in surface coordinates. Delta is the
// number of wheel notches for Wheel events.
type PointerEvent struct {
	Kind  PointerKind
	Point geometry.Point
	Delta float64
}

// Notice is a user-facing message about a rejected store call.
type Notice struct {
	Message string
	Failure *model.StoreFailure
}

var noticeText = map[string]string{
	model.OpLoad:           "Couldn't load the board",
	model.OpCreateNode:     "Couldn't create the item",
	model.OpUpdateNode:     "Couldn't save changes",
	model.OpDeleteNode:     "Couldn't delete the item",
	model.OpCreateRelation: "Couldn't connect the items",
	model.OpDeleteRelation: "Couldn't remove the connection",
}

func noticeFor(f *model.StoreFailure) Notice {
	msg, ok := noticeText[f.Op]
	if !ok {
		msg = "Something went wrong"
	}
	return Notice{Message: msg + "; try again", Failure: f}
}
