package domain

import "time"

type WishList struct {
	ID         int64     `bson:"wish_list_id" json:"id,omitempty"`
	OwnerID    string    `bson:"user_id" json:"owner_id"`
	ProductIDs []int64   `bson:"product_ids" json:"product_ids"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

func NewWishList(ownerID string) *WishList {
	return &WishList{
		OwnerID:    ownerID,
		ProductIDs: []int64{},
	}
}

func (w *WishList) Contains(productID int64) bool {
	if w == nil {
		return false
	}
	for _, id := range w.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// Toggle flips membership of productID and reports whether it is now present.
func (w *WishList) Toggle(productID int64) bool {
	for i, id := range w.ProductIDs {
		if id == productID {
			w.ProductIDs = append(w.ProductIDs[:i], w.ProductIDs[i+1:]...)
			return false
		}
	}
	w.ProductIDs = append(w.ProductIDs, productID)
	return true
}

func (w *WishList) Empty() bool {
	w.ProductIDs = []int64{}
	return true
}
