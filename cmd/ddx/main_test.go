package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/ddx/internal/config"
	"github.com/bamsammich/ddx/internal/size"
)

func TestSizeFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr error
	}{
		{"100", 100, nil},
		{"1M", 1 << 20, nil},
		{"2kB", 2000, nil},
		{"7E", 7 << 60, nil},
		{"8E", 0, size.ErrOverflow},
		{"16E", 0, size.ErrOverflow},
		{"fast", 0, size.ErrInvalidFormat},
		{"10X", 0, size.ErrUnknownUnit},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var f sizeFlag
			err := f.Set(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, f.n)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.n)
		})
	}
}

func TestSizeFlagString(t *testing.T) {
	var f sizeFlag
	assert.Empty(t, f.String())
	assert.Equal(t, "size", f.Type())
	require.NoError(t, f.Set("1k"))
	assert.Equal(t, "1024", f.String())
}

func flagCmd(bw *sizeFlag, checksum *bool) *cobra.Command {
	cmd := &cobra.Command{Use: "ddx"}
	cmd.Flags().Var(bw, "bwlimit", "")
	cmd.Flags().BoolVar(checksum, "checksum", false, "")
	return cmd
}

func TestApplyConfigDefaults(t *testing.T) {
	limit, on := "1k", true
	defaults := config.DefaultsConfig{BWLimit: &limit, Checksum: &on}

	t.Run("config fills unset flags", func(t *testing.T) {
		var bw sizeFlag
		var checksum bool
		cmd := flagCmd(&bw, &checksum)

		require.NoError(t, applyConfigDefaults(cmd, defaults, &bw, &checksum))
		assert.Equal(t, int64(1024), bw.n)
		assert.True(t, checksum)
	})

	t.Run("command line wins", func(t *testing.T) {
		var bw sizeFlag
		var checksum bool
		cmd := flagCmd(&bw, &checksum)
		require.NoError(t, cmd.Flags().Set("bwlimit", "2k"))
		require.NoError(t, cmd.Flags().Set("checksum", "false"))

		require.NoError(t, applyConfigDefaults(cmd, defaults, &bw, &checksum))
		assert.Equal(t, int64(2048), bw.n)
		assert.False(t, checksum)
	})

	t.Run("empty config changes nothing", func(t *testing.T) {
		var bw sizeFlag
		var checksum bool
		cmd := flagCmd(&bw, &checksum)

		require.NoError(t, applyConfigDefaults(cmd, config.DefaultsConfig{}, &bw, &checksum))
		assert.Zero(t, bw.n)
		assert.False(t, checksum)
	})

	t.Run("bad bwlimit in config", func(t *testing.T) {
		bad := "fast"
		var bw sizeFlag
		var checksum bool
		cmd := flagCmd(&bw, &checksum)

		err := applyConfigDefaults(cmd, config.DefaultsConfig{BWLimit: &bad}, &bw, &checksum)
		assert.ErrorIs(t, err, size.ErrInvalidFormat)
		assert.ErrorContains(t, err, "invalid bwlimit")
	})
}
