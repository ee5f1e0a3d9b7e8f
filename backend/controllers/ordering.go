package controllers

import (
	"database/sql"

	"courseplatform/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Videos and PDFs each keep a dense 1-based order per course: after any
// append, delete or move the set of order values is exactly {1..N}. Every
// mutation below runs inside a transaction that first takes a FOR UPDATE lock
// on the course row, so two concurrent structural changes on the same course
// serialise instead of racing the renumbering.

func lockCourse(tx *gorm.DB, courseID uint) error {
	var course models.Course
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&course, courseID).Error
}

// nextOrder returns max(order)+1 within the course, or 1 for an empty collection.
func nextOrder(tx *gorm.DB, model interface{}, courseID uint) (int, error) {
	var maxOrder sql.NullInt64
	err := tx.Model(model).
		Where("course_id = ?", courseID).
		Select(`MAX("order")`).
		Scan(&maxOrder).Error
	if err != nil {
		return 0, err
	}
	if !maxOrder.Valid {
		return 1, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

// closeOrderGap decrements every order greater than the removed position,
// restoring density after a delete.
func closeOrderGap(tx *gorm.DB, model interface{}, courseID uint, removedOrder int) error {
	return tx.Model(model).
		Where(`course_id = ? AND "order" > ?`, courseID, removedOrder).
		UpdateColumn("order", gorm.Expr(`"order" - 1`)).Error
}

// shiftRange computes the half of the list displaced by moving one item from
// oldPos to newPos: moving down shifts (oldPos, newPos] up by -1, moving up
// shifts [newPos, oldPos) by +1. delta is 0 when nothing moves.
func shiftRange(oldPos, newPos int) (lo, hi, delta int) {
	switch {
	case newPos > oldPos:
		return oldPos + 1, newPos, -1
	case newPos < oldPos:
		return newPos, oldPos - 1, 1
	default:
		return 0, 0, 0
	}
}

// moveOrder shifts the displaced neighbours and reports the range; the caller
// then writes newPos onto the moved row itself.
func moveOrder(tx *gorm.DB, model interface{}, courseID uint, oldPos, newPos int) error {
	lo, hi, delta := shiftRange(oldPos, newPos)
	if delta == 0 {
		return nil
	}
	return tx.Model(model).
		Where(`course_id = ? AND "order" >= ? AND "order" <= ?`, courseID, lo, hi).
		UpdateColumn("order", gorm.Expr(`"order" + ?`, delta)).Error
}

// collectionSize counts items of the collection within a course.
func collectionSize(tx *gorm.DB, model interface{}, courseID uint) (int, error) {
	var count int64
	err := tx.Model(model).Where("course_id = ?", courseID).Count(&count).Error
	return int(count), err
}
