package types

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	tests := []struct {
		name       string
		recName    string
		phones     []string
		emails     []string
		birthday   string
		wantErr    error
		wantValue  string // offending value named in the error
		wantPhones []Phone
		wantEmails []Email
	}{
		{
			name:       "all fields",
			recName:    "Maria",
			phones:     []string{"0671234567"},
			emails:     []string{"maria@example.com"},
			birthday:   "01-05-1990",
			wantPhones: []Phone{"0671234567"},
			wantEmails: []Email{"maria@example.com"},
		},
		{
			name:    "name only",
			recName: "Bob",
		},
		{
			name:       "empty strings mean not given",
			recName:    "Bob",
			phones:     []string{""},
			emails:     []string{""},
			wantPhones: nil,
			wantEmails: nil,
		},
		{
			name:       "duplicate phones collapse",
			recName:    "Bob",
			phones:     []string{"123", "456", "123"},
			wantPhones: []Phone{"123", "456"},
		},
		{
			name:    "blank name rejected",
			recName: "   ",
			wantErr: ErrInvalidName,
		},
		{
			name:    "invalid utf-8 name rejected",
			recName: "An\xffn",
			wantErr: ErrInvalidName,
		},
		{
			name:    "invalid utf-8 email rejected",
			recName: "Ann",
			emails:  []string{"a\xff@b.io"},
			wantErr: ErrInvalidFormat,
		},
		{
			name:      "invalid second phone aborts construction",
			recName:   "Bob",
			phones:    []string{"123", "12a3"},
			wantErr:   ErrInvalidFormat,
			wantValue: "12a3",
		},
		{
			name:      "invalid email aborts construction",
			recName:   "Bob",
			phones:    []string{"123"},
			emails:    []string{"bob-at-example"},
			wantErr:   ErrInvalidFormat,
			wantValue: "bob-at-example",
		},
		{
			name:      "invalid birthday aborts construction",
			recName:   "Bob",
			birthday:  "31-02-1990",
			wantErr:   ErrInvalidFormat,
			wantValue: "31-02-1990",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRecord(tt.recName, tt.phones, tt.emails, tt.birthday)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, r)
				if tt.wantValue != "" {
					assert.Contains(t, err.Error(), tt.wantValue)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.recName, r.Name)
			assert.Equal(t, tt.wantPhones, r.Phones)
			assert.Equal(t, tt.wantEmails, r.Emails)
			if tt.birthday == "" {
				assert.Nil(t, r.Birthday)
			} else {
				require.NotNil(t, r.Birthday)
				assert.Equal(t, tt.birthday, r.Birthday.String())
			}
		})
	}
}

func TestNewRecordGeneratesUUIDv7(t *testing.T) {
	r, err := NewRecord("Maria", nil, nil, "")
	require.NoError(t, err)

	id, err := uuid.Parse(r.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	other, err := NewRecord("Maria", nil, nil, "")
	require.NoError(t, err)
	assert.NotEqual(t, r.ID, other.ID)
}

func newTestRecord(t *testing.T, phones ...string) *Record {
	t.Helper()
	r, err := NewRecord("Test", phones, nil, "")
	require.NoError(t, err)
	return r
}

func TestRecordAddPhone(t *testing.T) {
	t.Run("appends valid phone", func(t *testing.T) {
		r := newTestRecord(t, "111")
		require.NoError(t, r.AddPhone("222"))
		assert.Equal(t, []Phone{"111", "222"}, r.Phones)
	})

	t.Run("adding twice is idempotent", func(t *testing.T) {
		r := newTestRecord(t)
		require.NoError(t, r.AddPhone("5551234"))
		require.NoError(t, r.AddPhone("5551234"))
		assert.Equal(t, []Phone{"5551234"}, r.Phones)
	})

	t.Run("near match is not a duplicate", func(t *testing.T) {
		r := newTestRecord(t, "5551234")
		require.NoError(t, r.AddPhone("05551234"))
		assert.Equal(t, []Phone{"5551234", "05551234"}, r.Phones)
	})

	for _, bad := range []string{"", "12a3"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			r := newTestRecord(t, "111")
			err := r.AddPhone(bad)
			assert.ErrorIs(t, err, ErrInvalidFormat)
			assert.Equal(t, []Phone{"111"}, r.Phones, "phones must be unchanged")
		})
	}
}

func TestRecordFindAndDeletePhone(t *testing.T) {
	r := newTestRecord(t, "111", "222")

	p, ok := r.FindPhone("222")
	assert.True(t, ok)
	assert.Equal(t, Phone("222"), p)

	_, ok = r.FindPhone("22")
	assert.False(t, ok, "find is exact, not substring")

	assert.False(t, r.DeletePhone("333"))
	assert.Equal(t, []Phone{"111", "222"}, r.Phones)

	assert.True(t, r.DeletePhone("111"))
	assert.Equal(t, []Phone{"222"}, r.Phones)
}

func TestRecordEditPhone(t *testing.T) {
	tests := []struct {
		name    string
		initial []string
		oldVal  string
		newVal  string
		wantErr error
		want    []Phone
	}{
		{
			name:    "replaces in place",
			initial: []string{"111", "222", "333"},
			oldVal:  "222",
			newVal:  "999",
			want:    []Phone{"111", "999", "333"},
		},
		{
			name:    "missing old value",
			initial: []string{"111"},
			oldVal:  "222",
			newVal:  "999",
			wantErr: ErrNotFound,
			want:    []Phone{"111"},
		},
		{
			name:    "invalid new value leaves phone unchanged",
			initial: []string{"111"},
			oldVal:  "111",
			newVal:  "abc",
			wantErr: ErrInvalidFormat,
			want:    []Phone{"111"},
		},
		{
			name:    "new value already present collapses",
			initial: []string{"111", "222"},
			oldVal:  "111",
			newVal:  "222",
			want:    []Phone{"222"},
		},
		{
			name:    "same value is a no-op",
			initial: []string{"111"},
			oldVal:  "111",
			newVal:  "111",
			want:    []Phone{"111"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRecord(t, tt.initial...)
			err := r.EditPhone(tt.oldVal, tt.newVal)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, r.Phones)
		})
	}
}

func TestRecordEmails(t *testing.T) {
	r, err := NewRecord("Ann", nil, []string{"ann@example.com"}, "")
	require.NoError(t, err)

	require.NoError(t, r.AddEmail("ann@work.example.com"))
	require.NoError(t, r.AddEmail("ann@example.com"))
	assert.Equal(t, []Email{"ann@example.com", "ann@work.example.com"}, r.Emails)

	assert.ErrorIs(t, r.AddEmail("ann"), ErrInvalidFormat)
	assert.Len(t, r.Emails, 2)

	e, ok := r.FindEmail("ann@work.example.com")
	assert.True(t, ok)
	assert.Equal(t, Email("ann@work.example.com"), e)

	assert.ErrorIs(t, r.EditEmail("nobody@example.com", "x@y.z"), ErrNotFound)
	assert.ErrorIs(t, r.EditEmail("ann@example.com", "broken"), ErrInvalidFormat)
	require.NoError(t, r.EditEmail("ann@example.com", "ann@home.example.com"))
	assert.Equal(t, []Email{"ann@home.example.com", "ann@work.example.com"}, r.Emails)

	assert.True(t, r.DeleteEmail("ann@work.example.com"))
	assert.False(t, r.DeleteEmail("ann@work.example.com"))
	assert.Equal(t, []Email{"ann@home.example.com"}, r.Emails)
}

func TestRecordSetBirthday(t *testing.T) {
	r := newTestRecord(t)
	require.NoError(t, r.SetBirthday("01-05-1990"))
	assert.Equal(t, "01-05-1990", r.Birthday.String())

	assert.ErrorIs(t, r.SetBirthday("1990-05-01"), ErrInvalidFormat)
	assert.Equal(t, "01-05-1990", r.Birthday.String(), "birthday must be unchanged on error")
}

func TestRecordDaysToBirthday(t *testing.T) {
	now := time.Date(2026, time.April, 29, 12, 0, 0, 0, time.UTC)

	r := newTestRecord(t)
	_, ok := r.DaysToBirthday(now)
	assert.False(t, ok)

	require.NoError(t, r.SetBirthday("01-05-1990"))
	days, ok := r.DaysToBirthday(now)
	assert.True(t, ok)
	assert.Equal(t, 2, days)
}

func TestRecordPhoneDigits(t *testing.T) {
	r := newTestRecord(t, "123", "456")
	assert.Equal(t, "123456", r.PhoneDigits())
	assert.Equal(t, "", newTestRecord(t).PhoneDigits())
}

func TestRecordString(t *testing.T) {
	tests := []struct {
		name     string
		phones   []string
		emails   []string
		birthday string
		want     string
	}{
		{
			name:     "all fields",
			phones:   []string{"0671234567", "0501112233"},
			emails:   []string{"maria@example.com"},
			birthday: "01-05-1990",
			want:     "Maria - 01-05-1990: 0671234567 0501112233 maria@example.com",
		},
		{
			name:   "no birthday",
			phones: []string{"0671234567"},
			want:   "Maria - no birthday: 0671234567",
		},
		{
			name: "name only",
			want: "Maria - no birthday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRecord("Maria", tt.phones, tt.emails, tt.birthday)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.String())
		})
	}
}
