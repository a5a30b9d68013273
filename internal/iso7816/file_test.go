package iso7816

import "testing"

func TestNewFileDescriptor(t *testing.T) {
	fd := NewFileDescriptor()
	if fd.ACL == nil {
		t.Fatal("NewFileDescriptor must initialize a non-nil ACL map")
	}
	if len(fd.ACL) != 0 {
		t.Errorf("len(ACL) = %d, want 0", len(fd.ACL))
	}
	if fd.Valid {
		t.Error("a freshly constructed FileDescriptor must not be Valid")
	}
}

func TestCreateDataKindDiscriminatesConcreteTypes(t *testing.T) {
	tests := []struct {
		name string
		data CreateData
		want createDataTag
	}{
		{"MF", MFData{}, tagMF},
		{"DF", DFData{}, tagDF},
		{"EF", EFData{}, tagEF},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.data.createDataKind(); got != tc.want {
				t.Errorf("createDataKind() = %v, want %v", got, tc.want)
			}
		})
	}
}
