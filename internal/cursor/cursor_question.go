package cursor

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Cursor points just past the last item of a newest-first page (createdAt + _id).
type Cursor struct {
	CreatedAt int64  `json:"createdAt"`
	ID        string `json:"id"`
}

func EncodeCursor(t time.Time, id bson.ObjectID) string {
	b, _ := json.Marshal(Cursor{
		CreatedAt: t.UnixMilli(),
		ID:        id.Hex(),
	})
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeCursor(s string) (time.Time, bson.ObjectID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return time.Time{}, bson.NilObjectID, err
	}

	var p Cursor
	if err := json.Unmarshal(raw, &p); err != nil {
		return time.Time{}, bson.NilObjectID, err
	}

	oid, err := bson.ObjectIDFromHex(p.ID)
	if err != nil {
		return time.Time{}, bson.NilObjectID, err
	}

	return time.UnixMilli(p.CreatedAt).UTC(), oid, nil
}

// Before reports whether (t, id) sorts after the cursor position in newest-first order.
func Before(t time.Time, id bson.ObjectID, curT time.Time, curID bson.ObjectID) bool {
	tm := t.UnixMilli()
	cm := curT.UnixMilli()
	if tm != cm {
		return tm < cm
	}
	return id.Hex() < curID.Hex()
}
