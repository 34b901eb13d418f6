package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/authz-expander-go/pkg/authorization"
	"github.com/Layr-Labs/authz-expander-go/pkg/transaction"
	"github.com/Layr-Labs/authz-expander-go/pkg/types"
	"github.com/Layr-Labs/authz-expander-go/pkg/util"
)

// readHexInput accepts either a hex string or a path to a file holding one
func readHexInput(input string) ([]byte, error) {
	if _, statErr := os.Stat(input); statErr == nil {
		fileData, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", input, err)
		}
		return util.DecodeHex(string(fileData))
	}
	return util.DecodeHex(input)
}

func readTransaction(input string) (*transaction.Tx, error) {
	data, err := readHexInput(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction: %w", err)
	}
	return transaction.Decode(data)
}

func writeTransaction(tx *transaction.Tx, outputFile string) error {
	encoded := util.EncodeHex(tx.Encode())
	if outputFile == "" {
		fmt.Println(encoded)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(encoded), 0644); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	fmt.Printf("Transaction %s written to: %s\n", tx.ID(), outputFile)
	return nil
}

// expandCommand handles the expand subcommand
func expandCommand(c *cli.Context) error {
	tx, err := readTransaction(c.String("tx"))
	if err != nil {
		return err
	}

	pubkey, err := util.DecodeHex(c.String("pubkey"))
	if err != nil {
		return fmt.Errorf("failed to decode public key: %w", err)
	}
	signature, err := util.DecodeHex(c.String("signature"))
	if err != nil {
		return fmt.Errorf("failed to decode signature: %w", err)
	}
	indices, err := util.ParseIndices(c.String("indices"))
	if err != nil {
		return err
	}
	signerIndex := c.Uint("signer-index")
	if signerIndex > 255 {
		return fmt.Errorf("signer index %d does not fit in a byte", signerIndex)
	}

	section, err := authorization.ExpandAuthorizationAt(uint8(signerIndex), pubkey, indices, signature, tx)
	if err != nil {
		return fmt.Errorf("failed to expand authorization: %w", err)
	}

	fmt.Printf("hash:    %s\n", types.HashSection(section))
	fmt.Printf("section: %s\n", util.EncodeHex(types.EncodeSection(section)))
	return nil
}

// appendCommand handles the append subcommand
func appendCommand(c *cli.Context) error {
	tx, err := readTransaction(c.String("tx"))
	if err != nil {
		return err
	}

	sigMsg, err := readHexInput(c.String("sig-msg"))
	if err != nil {
		return fmt.Errorf("failed to read signature message: %w", err)
	}
	msg, err := authorization.DecodeSignatureMsg(sigMsg)
	if err != nil {
		return err
	}

	if err := authorization.AppendSignatures(tx, msg); err != nil {
		return fmt.Errorf("failed to append signatures: %w", err)
	}
	return writeTransaction(tx, c.String("output"))
}

// hashCommand handles the hash subcommand
func hashCommand(c *cli.Context) error {
	tx, err := readTransaction(c.String("tx"))
	if err != nil {
		return err
	}

	fmt.Printf("id: %s\n", tx.ID())
	fmt.Printf("%3d  %-14s %s\n", transaction.HeaderIndex, types.SectionHeader, tx.HeaderHash())
	for i, s := range tx.Sections {
		fmt.Printf("%3d  %-14s %s\n", i+1, s.Kind(), types.HashSection(s))
	}
	fmt.Printf("%3d  %-14s %s\n", transaction.RawHeaderIndex, "raw header", tx.RawHeaderHash())
	return nil
}
