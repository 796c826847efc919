package access

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/iov-one/authtoken/weavetest"
)

func TestOwnerAdminScenario(t *testing.T) {
	Convey("Given a contract instance backed by a committed store", t, func() {
		ctx := testContext(t)
		commit, cleanup := weavetest.CommitKVStore(t)
		defer cleanup()
		db := commit.Adapter()

		o := weavetest.NewKey()
		ox := o.PublicKey()
		ax := weavetest.NewKey().PublicKey()

		n, err := Nonce(db, ox)
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 0)

		Convey("O sets itself as the owner", func() {
			So(SetOwner(ctx, db, ox), ShouldBeNil)

			Convey("and adds Ax with nonce 0", func() {
				sig, err := SignAddAdmin(ctx, o, ax, 0)
				So(err, ShouldBeNil)
				So(AddAdmin(ctx, db, ax, sig, 0), ShouldBeNil)

				admins, err := GetAdmins(db)
				So(err, ShouldBeNil)
				So(len(admins), ShouldEqual, 1)
				So(admins[0].Equals(ax), ShouldBeTrue)

				n, err := Nonce(db, ox)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)

				Convey("repeating the identical call fails", func() {
					err := AddAdmin(ctx, db, ax, sig, 0)
					So(ErrNonceMismatch.Is(err), ShouldBeTrue)

					n, err := Nonce(db, ox)
					So(err, ShouldBeNil)
					So(n, ShouldEqual, 1)
				})

				Convey("the state survives a commit", func() {
					_, err := commit.Commit()
					So(err, ShouldBeNil)
					So(commit.LoadLatestVersion(), ShouldBeNil)

					isAdmin, err := IsAdmin(commit.Adapter(), ax)
					So(err, ShouldBeNil)
					So(isAdmin, ShouldBeTrue)
				})
			})

			Convey("a second owner cannot be set", func() {
				err := SetOwner(ctx, db, ax)
				So(ErrAlreadySet.Is(err), ShouldBeTrue)
			})
		})
	})
}
