package repository

import (
	"context"

	"github.com/iliyamo/dorm-booking/internal/model"
)

// ImageRepo persists property and room galleries.
type ImageRepo struct {
	q querier
}

func (r *ImageRepo) ListPropertyImages(ctx context.Context, propertyID uint64) ([]model.PropertyImage, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, property_id, image, caption, sort_order, created_at
		FROM property_images WHERE property_id = ? ORDER BY sort_order, id`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.PropertyImage{}
	for rows.Next() {
		var img model.PropertyImage
		if err := rows.Scan(&img.ID, &img.PropertyID, &img.Image, &img.Caption, &img.SortOrder, &img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (r *ImageRepo) CreatePropertyImage(ctx context.Context, img *model.PropertyImage) error {
	res, err := r.q.ExecContext(ctx, `INSERT INTO property_images (property_id, image, caption, sort_order) VALUES (?, ?, ?, ?)`,
		img.PropertyID, img.Image, img.Caption, img.SortOrder)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	img.ID = uint64(id)
	return nil
}

func (r *ImageRepo) UpdatePropertyImage(ctx context.Context, img *model.PropertyImage) error {
	_, err := r.q.ExecContext(ctx, `UPDATE property_images SET image = ?, caption = ?, sort_order = ? WHERE id = ?`,
		img.Image, img.Caption, img.SortOrder, img.ID)
	return err
}

func (r *ImageRepo) DeletePropertyImage(ctx context.Context, id uint64) error {
	return r.deleteByID(ctx, `DELETE FROM property_images WHERE id = ?`, id)
}

func (r *ImageRepo) ListRoomImages(ctx context.Context, roomID uint64) ([]model.RoomImage, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, room_id, image, caption, sort_order, created_at
		FROM room_images WHERE room_id = ? ORDER BY sort_order, id`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.RoomImage{}
	for rows.Next() {
		var img model.RoomImage
		if err := rows.Scan(&img.ID, &img.RoomID, &img.Image, &img.Caption, &img.SortOrder, &img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (r *ImageRepo) CreateRoomImage(ctx context.Context, img *model.RoomImage) error {
	res, err := r.q.ExecContext(ctx, `INSERT INTO room_images (room_id, image, caption, sort_order) VALUES (?, ?, ?, ?)`,
		img.RoomID, img.Image, img.Caption, img.SortOrder)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	img.ID = uint64(id)
	return nil
}

func (r *ImageRepo) UpdateRoomImage(ctx context.Context, img *model.RoomImage) error {
	_, err := r.q.ExecContext(ctx, `UPDATE room_images SET image = ?, caption = ?, sort_order = ? WHERE id = ?`,
		img.Image, img.Caption, img.SortOrder, img.ID)
	return err
}

func (r *ImageRepo) DeleteRoomImage(ctx context.Context, id uint64) error {
	return r.deleteByID(ctx, `DELETE FROM room_images WHERE id = ?`, id)
}

func (r *ImageRepo) deleteByID(ctx context.Context, q string, id uint64) error {
	res, err := r.q.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
