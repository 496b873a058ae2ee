package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pagemesh/internal/xorcipher"
)

var cipherKey int

var cipherCmd = &cobra.Command{
	Use:   "cipher <text>",
	Short: "XOR-encrypt a string and round-trip it back",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cipherKey < 0 || cipherKey > 255 {
			return fmt.Errorf("key must be between 0 and 255, got %d", cipherKey)
		}
		key := byte(cipherKey)

		enc := xorcipher.Encrypt(args[0], key)
		dec, err := xorcipher.Decrypt(enc, key)
		if err != nil {
			return err
		}

		fmt.Printf("original:  %s\n", args[0])
		fmt.Printf("encrypted: %x\n", enc)
		fmt.Printf("decrypted: %s\n", dec)
		return nil
	},
}

func init() {
	cipherCmd.Flags().IntVar(&cipherKey, "key", int(xorcipher.DefaultKey),
		"single-byte XOR key (0-255)")
	rootCmd.AddCommand(cipherCmd)
}
