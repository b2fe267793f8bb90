package controller

import (
	"fmt"
	"strings"
	"time"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

const orderSheet = "Orders"

var orderColumns = []string{
	"Order ID", "Status", "Customer", "Phone", "Email", "Shipping Address",
	"Items", "Item Count", "Total", "Placed At", "Received At", "Delivered At", "Message",
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func describeItems(items model.OrderItems) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%s by %s x%d @ %.2f", item.Name, item.ArtistName, item.Quantity, item.UnitPrice)
	}
	return strings.Join(parts, "; ")
}

// buildOrderWorkbook renders one row per order under a bold header row.
func buildOrderWorkbook(orders []model.Order) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), orderSheet); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]interface{}, len(orderColumns))
	for i, col := range orderColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(orderSheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(orderColumns))
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(orderSheet, "A1", lastCol+"1", bold); err != nil {
		f.Close()
		return nil, err
	}

	for i, o := range orders {
		placed := o.CreatedAt
		row := []interface{}{
			o.OrderID,
			string(o.Status),
			o.CustomerName,
			o.CustomerPhone,
			o.CustomerEmail,
			o.ShippingAddress,
			describeItems(o.Items),
			o.ItemCount,
			o.TotalAmount,
			formatTime(&placed),
			formatTime(o.ReceivedAt),
			formatTime(o.DeliveredAt),
			o.CustomerMessage,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(orderSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}
